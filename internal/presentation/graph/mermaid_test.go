package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/sapgui/internal/presentation/graph"
	"github.com/aretw0/sapgui/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		snap     *domain.Snapshot
		contains []string
		excludes []string
	}{
		{
			name: "Nil Snapshot",
			snap: nil,
			contains: []string{
				"graph TD",
			},
			excludes: []string{"engine"},
		},
		{
			name: "Object Walk",
			snap: &domain.Snapshot{Application: "SAPGUI"},
			contains: []string{
				"SAPGUI((\"SAPGUI\"))",
				"SAPGUI --> engine",
				"engine -- \"Children(0)\" --> con0",
			},
			excludes: []string{"classDef current"},
		},
		{
			name: "Sessions And Current",
			snap: &domain.Snapshot{
				Application: "SAPGUI",
				Sessions: []domain.SessionInfo{
					{Index: 0, Transaction: "SESSION_MANAGER", SystemName: "DEV", Client: "100", User: "DEVELOPER"},
					{Index: 1, Transaction: "SE80"},
				},
			},
			contains: []string{
				"ses0[\"ses[0] <br/> SESSION_MANAGER <br/> DEV/100 DEVELOPER\"]",
				"ses1[\"ses[1] <br/> SE80\"]",
				"con0 --> ses1",
				"class ses0 current;",
			},
		},
		{
			name: "Sanitized Application",
			snap: &domain.Snapshot{Application: "SAP GUI.\"QA\""},
			contains: []string{
				"SAP_GUI_QA((\"SAP GUI.'QA'\"))",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.snap)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\ngot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output not to contain %q\ngot:\n%s", unwanted, got)
				}
			}
		})
	}
}
