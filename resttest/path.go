package resttest

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var pathParamRegex = regexp.MustCompile(`\{([^{}/]+)\}`)

// ExpandPath substitutes path parameters into {name} placeholders in a path
// template, URL-escaping the values. It is an error for the template to contain a
// placeholder with no corresponding parameter, or for the parameter map to contain
// a name that does not appear in the template; the second case is almost always a
// misspelled parameter name in a scenario.
func ExpandPath(template string, params map[string]interface{}) (string, error) {
	var missing []string
	used := make(map[string]bool)

	expanded := pathParamRegex.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		used[name] = true
		return url.PathEscape(fmt.Sprintf("%v", value))
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("path template %q has no value for parameter(s) %s",
			template, joinQuoted(missing))
	}

	var unused []string
	for name := range params {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return "", fmt.Errorf("path parameter(s) %s do not appear in path template %q",
			joinQuoted(unused), template)
	}

	return expanded, nil
}

func joinQuoted(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, ", ")
}

// encodeQuery builds a query string from the scenario's query parameters. A slice
// value produces one key=value pair per element, matching the usual convention for
// repeated query keys.
func encodeQuery(params map[string]interface{}) string {
	if len(params) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				values.Add(key, item)
			}
		case []interface{}:
			for _, item := range v {
				values.Add(key, fmt.Sprintf("%v", item))
			}
		default:
			values.Add(key, fmt.Sprintf("%v", value))
		}
	}
	return values.Encode()
}
