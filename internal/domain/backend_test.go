package domain

import (
	"errors"
	"net/url"
	"testing"
)

func TestBackendURL(t *testing.T) {
	cases := []struct {
		backend *Backend
		ref     string
		want    string
	}{
		{NewBackend("h1", 8000), "/user", "http://h1:8000/user"},
		{NewBackend("10.0.0.5", 9000), "/product/42?verbose=1", "http://10.0.0.5:9000/product/42?verbose=1"},
		{NewBackend("::1", 7998), "/order/purchased/7", "http://[::1]:7998/order/purchased/7"},
	}
	for _, c := range cases {
		ref, err := url.Parse(c.ref)
		if err != nil {
			t.Fatal(err)
		}
		if got := c.backend.URL(ref); got != c.want {
			t.Errorf("URL(%q) = %q, want %q", c.ref, got, c.want)
		}
	}
}

func TestConfigError(t *testing.T) {
	cause := errors.New("service \"user\" has no hosts")
	err := error(&ConfigError{Source: "ips.json", Err: cause})

	if !errors.Is(err, cause) {
		t.Errorf("Expected ConfigError to unwrap to its cause")
	}
	if got, want := err.Error(), `config ips.json: service "user" has no hosts`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := NewConfigError("", "no services").Error(); got != "config: no services" {
		t.Errorf("Error() = %q", got)
	}
}
