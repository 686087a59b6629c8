package collection

import (
	"encoding/json"
	"sort"
)

// MarshalOrder serialises a key order index.
func MarshalOrder(keys []string) ([]byte, error) {
	return json.MarshalIndent(keys, "", "  ")
}

// UnmarshalOrder deserialises a key order index. An object of key->position
// pairs is accepted as a legacy format.
func UnmarshalOrder(data []byte) ([]string, error) {
	if len(data) == 0 {
		return []string{}, nil
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err == nil {
		return keys, nil
	}
	var legacy map[string]int
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	keys = make([]string, 0, len(legacy))
	for k := range legacy {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return legacy[keys[i]] < legacy[keys[j]]
	})
	return keys, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
