package shadermgr

type EventListener func(m *Manager, data interface{})

type EventDataShader struct {
	Event  string `json:"event"`
	Shader string `json:"shader"`
	ID     uint32 `json:"id"`
}

type EventDataError struct {
	Event   string `json:"event"`
	Op      string `json:"op"`
	Message string `json:"message"`
}

// AddEventListener subscribes to "register", "unregister" or "error".
// Listeners run on their own goroutine.
func (m *Manager) AddEventListener(event string, callback EventListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener[event] = append(m.listener[event], callback)
}

func (m *Manager) invoke(event string, data interface{}) {
	for _, listener := range m.listener[event] {
		go listener(m, data)
	}
}
