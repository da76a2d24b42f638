package models

import (
	"reflect"
	"testing"
)

func TestNewAccount(t *testing.T) {
	type args struct {
		username        string
		hashedPassword  string
		startingCredits int64
	}
	tests := []struct {
		name string
		args args
		want *Account
	}{
		{
			name: "Create new account with starting balance",
			args: args{
				username:        "testuser",
				hashedPassword:  "hashed-secret",
				startingCredits: 100,
			},
			want: &Account{
				ID:       "", // ID is left empty for the database to populate
				Username: "testuser",
				Password: "hashed-secret",
				Credits:  100,
				Version:  1,
			},
		},
		{
			name: "Create new account with zero starting balance",
			args: args{
				username:        "broke",
				hashedPassword:  "hashed-secret",
				startingCredits: 0,
			},
			want: &Account{
				ID:       "",
				Username: "broke",
				Password: "hashed-secret",
				Credits:  0,
				Version:  1,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAccount(tt.args.username, tt.args.hashedPassword, tt.args.startingCredits); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewAccount() = %v, want %v", got, tt.want)
			}
		})
	}
}
