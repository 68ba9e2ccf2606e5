package matbench

import "maps"

// Params is the open key-value record of hyperparameters attached to a
// recorded fold. It is stored verbatim and serialized as the fold's
// "parameters" mapping.
//
// Documents are JSON, so integer values ingest as float64 after a
// round-trip; GetInt converts whole floats back for convenience.
type Params map[string]any

// Get returns the raw value for key.
func (p Params) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// GetString returns the value for key if it is a string.
func (p Params) GetString(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// GetBool returns the value for key if it is a bool.
func (p Params) GetBool(key string) (bool, bool) {
	b, ok := p[key].(bool)
	return b, ok
}

// GetFloat returns the value for key if it is numeric.
func (p Params) GetFloat(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetInt returns the value for key if it is an integer or a whole float.
func (p Params) GetInt(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Clone returns a shallow copy of the record, or nil for a nil receiver.
// Cloning at the record/ingest boundary prevents callers from mutating
// stored parameters through a retained map.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	copied := make(Params, len(p))
	maps.Copy(copied, p)
	return copied
}
