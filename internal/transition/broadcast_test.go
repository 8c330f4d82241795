package transition

import (
	"testing"

	"github.com/tgecore/tge/internal/form"
	"github.com/tgecore/tge/internal/graphdef"
)

func TestBroadcastReusesDeviceLocalReplica(t *testing.T) {
	tensor, tgt := buildTensor(t, graphdef.Node{Name: "foo", Op: "Const"}, form.New(form.Full, []int{0, 1}))
	to := form.New(form.Full, []int{1, 0})

	names, err := Broadcast(tensor, form.New(form.Full, []int{0, 1}), to, tgt, DefaultOptions())
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	want := []string{"foo/replica_1", "foo/replica_0"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if tgt.Len() != 0 {
		t.Errorf("Broadcast emitted %d aux ops, want 0", tgt.Len())
	}
}

func TestBroadcastFallsBackToReplicaZero(t *testing.T) {
	tensor, tgt := buildTensor(t, graphdef.Node{Name: "foo", Op: "Const"}, form.New(form.Full, []int{0, 1}))
	to := form.New(form.Full, []int{2})

	names, err := Broadcast(tensor, form.New(form.Full, []int{0, 1}), to, tgt, DefaultOptions())
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if len(names) != 1 || names[0] != "foo/replica_0" {
		t.Errorf("names = %v, want [foo/replica_0] (fallback to replica 0)", names)
	}
}
