package ingestion

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestDecodeMessage(t *testing.T) {
	id := uuid.New()
	data, _ := json.Marshal(LinkMessage{RunID: id, Repository: "shop", Source: SourceGit, Location: "https://example.com/shop.git@main"})

	tests := []struct {
		name    string
		fields  map[string]string
		wantErr bool
	}{
		{"valid", map[string]string{"data": string(data)}, false},
		{"missing data", map[string]string{}, true},
		{"bad json", map[string]string{"data": "{"}, true},
		{"missing run id", map[string]string{"data": `{"repository":"shop"}`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage(tt.fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (msg.RunID != id || msg.Source != SourceGit || msg.Repository != "shop") {
				t.Errorf("msg = %+v", msg)
			}
		})
	}
}
