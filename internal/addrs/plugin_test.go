package addrs

import (
	"testing"
)

func TestParsePluginName(t *testing.T) {
	tests := []struct {
		Input   string
		Want    string
		WantErr string
	}{
		{
			Input: "happycloud",
			Want:  "happycloud",
		},
		{
			Input: "happy-cloud2",
			Want:  "happy-cloud2",
		},
		{
			// uppercase input is folded rather than rejected
			Input: "HappyCloud",
			Want:  "happycloud",
		},
		{
			Input:   "",
			WantErr: "must have at least one character",
		},
		{
			Input:   "-happycloud",
			WantErr: `invalid plugin name "-happycloud": must not start or end with a dash`,
		},
		{
			Input:   "happycloud-",
			WantErr: `invalid plugin name "happycloud-": must not start or end with a dash`,
		},
		{
			Input:   "happy_cloud",
			WantErr: `invalid plugin name "happy_cloud": may contain only lowercase letters, digits, and dashes`,
		},
		{
			Input:   "happy cloud",
			WantErr: `invalid plugin name "happy cloud": may contain only lowercase letters, digits, and dashes`,
		},
	}

	for _, test := range tests {
		t.Run(test.Input, func(t *testing.T) {
			got, err := ParsePluginName(test.Input)
			if test.WantErr != "" {
				if err == nil {
					t.Fatalf("unexpected success; want error %q", test.WantErr)
				}
				if got, want := err.Error(), test.WantErr; got != want {
					t.Fatalf("wrong error\ngot:  %s\nwant: %s", got, want)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got.Name != test.Want {
				t.Errorf("wrong result\ngot:  %s\nwant: %s", got.Name, test.Want)
			}
		})
	}
}
