package storage

// Memory keeps values in a map. Useful for tests and dry runs. The zero
// value is ready to use.
type Memory struct {
	values map[string]string
	// SetErr, when non-nil, is returned by every Set.
	SetErr error
	// GetErr, when non-nil, is returned by every Get.
	GetErr error
	Writes int
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	m.Writes++
	return nil
}
