// Copyright 2026 The OpenTrusty Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command migrate applies the replay cache's PostgreSQL schema. The
// connection string is never embedded: it is read from the
// REPLAY_CACHE_DSN environment variable, or from the first command-line
// argument if given.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/opentrusty/opentrusty/internal/replaycache/postgres"
)

func main() {
	ctx := context.Background()

	dsn := os.Getenv("REPLAY_CACHE_DSN")
	if len(os.Args) > 1 {
		dsn = os.Args[1]
	}
	if dsn == "" {
		fmt.Println("usage: migrate [dsn]  (or set REPLAY_CACHE_DSN)")
		os.Exit(1)
	}

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fmt.Printf("failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Println("applying replay cache schema...")
	if err := store.Migrate(ctx); err != nil {
		fmt.Printf("migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("migration successful.")
}
