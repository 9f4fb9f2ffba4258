package core

import (
	"context"
	"testing"
)

// TestTaskTraits_Priorities tests the trait constructors
func TestTaskTraits_Priorities(t *testing.T) {
	tests := []struct {
		name   string
		traits TaskTraits
		want   TaskPriority
	}{
		{"default", DefaultTaskTraits(), TaskPriorityUserVisible},
		{"user blocking", TraitsUserBlocking(), TaskPriorityUserBlocking},
		{"user visible", TraitsUserVisible(), TaskPriorityUserVisible},
		{"best effort", TraitsBestEffort(), TaskPriorityBestEffort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.traits.Priority != tt.want {
				t.Errorf("Priority = %d, want %d", tt.traits.Priority, tt.want)
			}
		})
	}
	if !(TaskPriorityBestEffort < TaskPriorityUserVisible && TaskPriorityUserVisible < TaskPriorityUserBlocking) {
		t.Error("priorities are not ordered")
	}
}

// TestGetCurrentTaskRunner_Outside tests lookup on a bare context
func TestGetCurrentTaskRunner_Outside(t *testing.T) {
	if r := GetCurrentTaskRunner(context.Background()); r != nil {
		t.Fatalf("GetCurrentTaskRunner = %v, want nil", r)
	}
}

var (
	_ TaskRunner     = (*MainThreadRunner)(nil)
	_ FrameRequester = (*MainThreadRunner)(nil)
)
