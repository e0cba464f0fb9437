package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	t.Parallel()
	network := "midkemia"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "Gateway",
			got:      Gateway(network),
			expected: "midkemia",
		},
		{
			name:     "KeyPair",
			got:      KeyPair(network),
			expected: "midkemia-bastion",
		},
		{
			name:     "SecurityGroup",
			got:      SecurityGroup(network),
			expected: "midkemia-bastion",
		},
		{
			name:     "KeyObject",
			got:      KeyObject("midkemia-bastion"),
			expected: "midkemia-bastion.pem",
		},
		{
			name:     "KeyBucket lowercases",
			got:      KeyBucket("Midkemia-Keys", "AKIAEXAMPLE"),
			expected: "midkemia-keys-akiaexample",
		},
		{
			name:     "ConnectScript",
			got:      ConnectScript("bastion-a"),
			expected: "connect_bastion-a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.got != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.got)
			}
		})
	}
}
