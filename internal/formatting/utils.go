package formatting

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/docker/go-units"
)

// PrettyJSON formats any value as indented JSON for human-readable display.
// It handles marshaling errors gracefully by falling back to fmt.Sprintf.
//
// Example:
//
//	data := map[string]interface{}{"name": "test", "value": 42}
//	fmt.Println(formatting.PrettyJSON(data))
//	// Output:
//	// {
//	//   "name": "test",
//	//   "value": 42
//	// }
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// HumanInterval renders a refresh interval as an exact Go duration followed
// by a rounded, readable form, e.g. "6h0m0s (6 hours)".
func HumanInterval(d time.Duration) string {
	return fmt.Sprintf("%s (%s)", d, units.HumanDuration(d))
}
