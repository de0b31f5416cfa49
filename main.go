package main

import (
	"log"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := New().Execute(); err != nil {
		log.Fatalf("lunascope: %v", err)
	}
}
