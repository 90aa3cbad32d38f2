package pointers

func Int(v int) *int          { return &v }
func String(v string) *string { return &v }

// StringOrNil returns nil for an empty string.
func StringOrNil(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
