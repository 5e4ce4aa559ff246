package store_test

import (
	"os"
	"testing"

	"gitlab.com/navguard/navguard"
	"gitlab.com/navguard/store"
)

func TestConfigStore(t *testing.T) {
	path := "testdata/config"
	os.RemoveAll(path)
	defer os.RemoveAll(path)

	s := store.NewConfigStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("error init config store: %s\n", err)
	}
	defer s.Close()

	// fresh store reads back unconfigured
	cfg, err := s.Get()
	if err != nil {
		t.Fatalf("error getting empty config: %s\n", err)
	}
	if cfg.Configured() {
		t.Fatalf("empty store must be unconfigured, got %+v\n", cfg)
	}

	want := navguard.ServiceConfig{BackendAddress: "https://analysis.example", Credential: "secret"}
	if err := s.Set(want); err != nil {
		t.Fatalf("error setting config: %s\n", err)
	}
	cfg, err = s.Get()
	if err != nil {
		t.Fatalf("error getting config: %s\n", err)
	}
	if cfg != want {
		t.Fatalf("expected %+v got %+v\n", want, cfg)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("error clearing config: %s\n", err)
	}
	cfg, _ = s.Get()
	if cfg.Configured() {
		t.Fatalf("cleared store must be unconfigured, got %+v\n", cfg)
	}

	// clearing twice is not an error
	if err := s.Clear(); err != nil {
		t.Fatalf("error clearing empty store: %s\n", err)
	}
}

func TestConfigStorePersists(t *testing.T) {
	path := "testdata/config_reopen"
	os.RemoveAll(path)
	defer os.RemoveAll(path)

	s := store.NewConfigStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("error init config store: %s\n", err)
	}
	want := navguard.ServiceConfig{BackendAddress: "https://analysis.example", Credential: "secret"}
	if err := s.Set(want); err != nil {
		t.Fatalf("error setting config: %s\n", err)
	}
	s.Close()

	s = store.NewConfigStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("error reopening config store: %s\n", err)
	}
	defer s.Close()
	cfg, err := s.Get()
	if err != nil {
		t.Fatalf("error getting config after reopen: %s\n", err)
	}
	if cfg != want {
		t.Fatalf("config must survive a restart, expected %+v got %+v\n", want, cfg)
	}
}
