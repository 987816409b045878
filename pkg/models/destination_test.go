package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDestination(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Destination
		wantError bool
	}{
		{
			name:  "four part name",
			input: "myacct.ANALYTICS.PUBLIC.ORDERS",
			want:  Destination{Account: "myacct", Database: "ANALYTICS", Schema: "PUBLIC", Table: "ORDERS"},
		},
		{
			name:  "three part name",
			input: "ANALYTICS.PUBLIC.ORDERS",
			want:  Destination{Database: "ANALYTICS", Schema: "PUBLIC", Table: "ORDERS"},
		},
		{
			name:  "two part name",
			input: "PUBLIC.ORDERS",
			want:  Destination{Schema: "PUBLIC", Table: "ORDERS"},
		},
		{
			name:      "single part",
			input:     "ORDERS",
			wantError: true,
		},
		{
			name:      "empty part",
			input:     "ANALYTICS..ORDERS",
			wantError: true,
		},
		{
			name:      "too many parts",
			input:     "a.b.c.d.e",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDestination(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDestinationQualifiedName(t *testing.T) {
	d := Destination{Database: "ANALYTICS", Schema: "PUBLIC", Table: "ORDERS"}
	assert.Equal(t, "ANALYTICS.PUBLIC.ORDERS", d.QualifiedName())

	d2 := Destination{Schema: "PUBLIC", Table: "ORDERS"}
	assert.Equal(t, "PUBLIC.ORDERS", d2.QualifiedName())

	d3 := Destination{Account: "myacct", Database: "ANALYTICS", Schema: "PUBLIC", Table: "ORDERS"}
	assert.Equal(t, "myacct.ANALYTICS.PUBLIC.ORDERS", d3.String())
}
