package hermestest

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/ory/dockertest"
)

// DockerServiceConfig describes a throwaway container and how to connect to it.
type DockerServiceConfig[T any] struct {
	DockerImage    string
	DockerImageTag string
	InternalPort   int
	Environment    map[string]string
	Cmd            []string
	// Builder is retried until it succeeds or the pool gives up.
	Builder func(host string, port int) (T, error)
}

func (d DockerServiceConfig[T]) Env() []string {
	env := []string{}
	for k, v := range d.Environment {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	return env
}

// GetDockerService starts the container, waits for Builder to connect and
// purges the container when the test ends. It skips in short mode.
func GetDockerService[T any](
	t *testing.T,
	config DockerServiceConfig[T],
) T {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping long-running test in short mode.")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Could not construct pool: %s", err)
	}
	pool.MaxWait = 2 * time.Minute

	if err := pool.Client.Ping(); err != nil {
		t.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: config.DockerImage,
		Tag:        config.DockerImageTag,
		Env:        config.Env(),
		Cmd:        config.Cmd,
	})
	if err != nil {
		t.Fatalf("Could not start %s:%s: %s", config.DockerImage, config.DockerImageTag, err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("Could not purge %s: %s", config.DockerImage, err)
		}
	})

	host, port, err := dockerAddress(resource.GetHostPort(fmt.Sprintf("%d/tcp", config.InternalPort)))
	if err != nil {
		t.Fatalf("Could not resolve container address: %s", err)
	}

	var service T
	if err := pool.Retry(func() error {
		var err error
		service, err = config.Builder(host, port)

		return err
	}); err != nil {
		t.Fatalf("Could not connect to %s: %s", config.DockerImage, err)
	}

	return service
}

// dockerAddress prefers DOCKER_HOST's host when it is set, with the port
// that was mapped for the container.
func dockerAddress(hostPort string) (string, int, error) {
	mapped, err := url.Parse("tcp://" + hostPort)
	if err != nil {
		return "", 0, err
	}

	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		return "", 0, err
	}

	host := mapped.Hostname()
	if dockerHost := os.Getenv("DOCKER_HOST"); dockerHost != "" {
		if u, err := url.Parse(dockerHost); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
	}

	return host, port, nil
}
