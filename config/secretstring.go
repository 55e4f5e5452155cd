package config

// SecretStringValue replaces secret values in every rendering.
const SecretStringValue = "<secret>"

// SecretString holds credentials (server access token) which must never be
// visible in logs, reports or configuration dumps.
type SecretString string

func (s SecretString) String() string {
	if len(s) == 0 {
		return ""
	}
	return SecretStringValue
}

// Value returns actual secret, use only for comparison.
func (s SecretString) Value() string {
	return string(s)
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte("\"" + SecretStringValue + "\""), nil
}

func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretStringValue, nil
}
