package main

import "testing"

func TestRunRejectsBadArgumentsBeforeConnecting(t *testing.T) {
	cases := map[string][]string{
		"missing project": {},
		"malformed id":    {"-project", "not-a-uuid"},
		"unknown flag":    {"-nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if code := run(args); code != 2 {
				t.Fatalf("run(%v) = %d, want 2", args, code)
			}
		})
	}
}
