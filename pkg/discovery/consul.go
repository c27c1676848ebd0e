package discovery

import (
	"fmt"
	"log"
	"strconv"

	"github.com/hashicorp/consul/api"

	"github.com/synaptrix4/skillatics-io/internal/config"
)

type ServiceRegistry struct {
	client *api.Client
	config *config.Config
}

func NewServiceRegistry(cfg *config.Config) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.ConsulAddress

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %v", err)
	}
	return &ServiceRegistry{client: client, config: cfg}, nil
}

// Registration describes this service's HTTP endpoint with a /health check.
func Registration(cfg *config.Config) *api.AgentServiceRegistration {
	port, _ := strconv.Atoi(cfg.Port)
	return &api.AgentServiceRegistration{
		ID:      cfg.ServiceID + "-http",
		Name:    cfg.ServiceName,
		Port:    port,
		Address: cfg.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", cfg.ServiceAddress, cfg.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"assessment", "http"},
		Meta: map[string]string{
			"protocol": "http",
		},
	}
}

func (sr *ServiceRegistry) Register() error {
	if err := sr.client.Agent().ServiceRegister(Registration(sr.config)); err != nil {
		return fmt.Errorf("failed to register HTTP service with Consul: %v", err)
	}
	log.Println("Successfully registered HTTP service with Consul")
	return nil
}

func (sr *ServiceRegistry) Deregister() {
	if err := sr.client.Agent().ServiceDeregister(sr.config.ServiceID + "-http"); err != nil {
		log.Printf("Error deregistering HTTP service: %v", err)
	}
}
