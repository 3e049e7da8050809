package llm_service

import "fmt"

// Registry maps provider names to LLM services so the active answer
// generator can be selected by configuration.
type Registry struct {
	services map[string]LLMService
}

func NewRegistry() *Registry {
	return &Registry{services: make(map[string]LLMService)}
}

func (r *Registry) Register(name string, service LLMService) {
	r.services[name] = service
}

func (r *Registry) Get(name string) (LLMService, error) {
	svc, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s", name)
	}
	return svc, nil
}
