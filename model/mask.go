package model

// MaskAPIKey redacts a key for display as its first 8 and last 4
// characters. Keys too short to leave anything hidden become "****".
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 12 {
		return "****"
	}
	return string(r[:8]) + "..." + string(r[len(r)-4:])
}
