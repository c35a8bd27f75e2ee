package utils

import (
	"testing"
	"time"
)

func TestNewHTTPClient_NotNil(t *testing.T) {
	client := NewHTTPClient("http://localhost:8080", time.Second)

	if client == nil {
		t.Fatal("expected non-nil *HTTPClient, got nil")
	}

	if client.Client == nil {
		t.Fatal("expected embedded *resty.Client to be non-nil, got nil")
	}
}

func TestNewHTTPClient_Configured(t *testing.T) {
	client := NewHTTPClient("http://localhost:8080", 3*time.Second)

	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("unexpected base url %q", client.BaseURL)
	}
	if got := client.GetClient().Timeout; got != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", got)
	}
	if client.Header.Get("Accept") != "application/json" {
		t.Errorf("expected json Accept header, got %q", client.Header.Get("Accept"))
	}
}

func TestNewHTTPClient_Independence(t *testing.T) {
	// Create two clients and make sure they don't share the same underlying resty.Client
	client1 := NewHTTPClient("http://a", 0)
	client2 := NewHTTPClient("http://b", 0)

	if client1.Client == client2.Client {
		t.Fatal("expected NewHTTPClient to return HTTPClients with different *resty.Client instances")
	}
}
