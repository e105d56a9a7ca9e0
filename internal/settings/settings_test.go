package settings

import (
	"errors"
	"testing"
)

func TestTemporary(t *testing.T) {
	s := &Settings{
		Deployment: true,
		Frozen:     true,
	}

	var duringDeployment, duringFrozen bool
	err := s.Temporary(Overrides{
		Deployment: Bool(false),
		Frozen:     Bool(false),
	}, func() error {
		duringDeployment = s.Deployment
		duringFrozen = s.Frozen
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if duringDeployment || duringFrozen {
		t.Errorf("override not applied during callback: %v, %v", duringDeployment, duringFrozen)
	}
	if !s.Deployment || !s.Frozen {
		t.Errorf("values not restored after callback: %v, %v", s.Deployment, s.Frozen)
	}
}

func TestTemporaryPartialOverride(t *testing.T) {
	s := &Settings{
		Deployment: true,
		Frozen:     true,
	}

	err := s.Temporary(Overrides{Frozen: Bool(false)}, func() error {
		if !s.Deployment {
			t.Errorf("unset override changed Deployment")
		}
		if s.Frozen {
			t.Errorf("override not applied to Frozen")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestTemporaryRestoresOnError(t *testing.T) {
	s := &Settings{
		Deployment: true,
		Frozen:     true,
	}

	wantErr := errors.New("callback failed")
	err := s.Temporary(Overrides{
		Deployment: Bool(false),
		Frozen:     Bool(false),
	}, func() error {
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("wrong error %#v; want %#v", err, wantErr)
	}

	if !s.Deployment || !s.Frozen {
		t.Errorf("values not restored after error: %v, %v", s.Deployment, s.Frozen)
	}
}

func TestTemporaryRestoresOnPanic(t *testing.T) {
	s := &Settings{
		Deployment: true,
		Frozen:     true,
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("callback did not panic")
			}
		}()
		s.Temporary(Overrides{
			Deployment: Bool(false),
			Frozen:     Bool(false),
		}, func() error {
			panic("callback panicked")
		})
	}()

	if !s.Deployment || !s.Frozen {
		t.Errorf("values not restored after panic: %v, %v", s.Deployment, s.Frozen)
	}

	// The panic must also have released the override lock, or this call
	// would deadlock.
	done := s.Temporary(Overrides{}, func() error { return nil })
	if done != nil {
		t.Fatalf("unexpected error: %s", done)
	}
}
