package config

import (
	"net"
	"net/url"
	"os"
	"sync"
)

var (
	isDockerOnce   sync.Once
	isDockerResult bool
)

// IsRunningInDocker returns true if the application is running inside a Docker container.
// Detection is based on the presence of /.dockerenv file which exists in all Docker containers.
// The result is cached after the first call.
func IsRunningInDocker() bool {
	isDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		isDockerResult = err == nil
	})
	return isDockerResult
}

// ResolveEndpointForDocker points a localhost collaborator URL (a local
// model server or translation service) at the Docker host when running in a
// container. Other URLs are returned unchanged.
func ResolveEndpointForDocker(endpoint string) string {
	return resolveEndpoint(endpoint, IsRunningInDocker())
}

func resolveEndpoint(endpoint string, inDocker bool) string {
	if !inDocker || endpoint == "" {
		return endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}

	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" {
		return endpoint
	}

	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort("host.docker.internal", port)
	} else {
		u.Host = "host.docker.internal"
	}
	return u.String()
}
