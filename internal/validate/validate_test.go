package validate

import (
	"errors"
	"testing"
)

const wellFormed = `{
  "nodes": [
    {"name": "a", "op": "Const"},
    {"name": "b", "op": "Identity", "input": ["a"]}
  ],
  "devices": ["/device:GPU:0", "/device:GPU:1"],
  "forms": {"a": "full_0_1", "b": "full_0_1"},
  "all_reduce": {"a": "nccl"}
}`

func TestPayloadAcceptsWellFormedDocument(t *testing.T) {
	if err := Payload([]byte(wellFormed)); err != nil {
		t.Fatalf("Payload(well-formed) = %v, want nil", err)
	}
}

func TestPayloadRejectsEmpty(t *testing.T) {
	if err := Payload(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Payload(nil) = %v, want ErrEmptyPayload", err)
	}
	if err := Payload([]byte{}); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Payload([]byte{}) = %v, want ErrEmptyPayload", err)
	}
}

func TestPayloadRejectsMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"missing nodes":   `{"devices": [], "forms": {}}`,
		"missing devices": `{"nodes": [], "forms": {}}`,
		"missing forms":   `{"nodes": [], "devices": []}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			err := Payload([]byte(doc))
			if err == nil {
				t.Fatal("Payload accepted a document missing a required field")
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v (%T), want *Error", err, err)
			}
			if len(verr.Fields) == 0 {
				t.Error("Error.Fields is empty, want at least one field violation")
			}
		})
	}
}

func TestPayloadRejectsUnknownAllReduceValue(t *testing.T) {
	doc := `{
	  "nodes": [{"name": "a", "op": "Const"}],
	  "devices": ["d0"],
	  "forms": {"a": "full_0"},
	  "all_reduce": {"a": "bogus"}
	}`
	if err := Payload([]byte(doc)); err == nil {
		t.Fatal("Payload accepted an all_reduce value outside the nccl/ring enum")
	}
}

func TestPayloadRejectsNodeMissingOp(t *testing.T) {
	doc := `{"nodes": [{"name": "a"}], "devices": [], "forms": {}}`
	if err := Payload([]byte(doc)); err == nil {
		t.Fatal("Payload accepted a node missing its required op field")
	}
}

func TestParseNodesDecodesNodeList(t *testing.T) {
	type node struct {
		Name string   `json:"name"`
		Op   string   `json:"op"`
		Input []string `json:"input"`
	}
	var nodes []node
	if err := ParseNodes([]byte(wellFormed), &nodes); err != nil {
		t.Fatalf("ParseNodes: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("ParseNodes decoded %d nodes, want 2", len(nodes))
	}
	if nodes[0].Name != "a" || nodes[0].Op != "Const" {
		t.Errorf("nodes[0] = %+v", nodes[0])
	}
	if nodes[1].Name != "b" || len(nodes[1].Input) != 1 || nodes[1].Input[0] != "a" {
		t.Errorf("nodes[1] = %+v", nodes[1])
	}
}

func TestParseNodesPropagatesValidationFailure(t *testing.T) {
	var nodes []struct{}
	if err := ParseNodes([]byte(`{"devices": [], "forms": {}}`), &nodes); err == nil {
		t.Fatal("ParseNodes accepted a document missing the required nodes field")
	}
}
