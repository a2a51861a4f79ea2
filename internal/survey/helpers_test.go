package survey

import "encoding/json"

func jsonNum(s string) any {
	return normalize(json.Number(s))
}
