package depot_test

import (
	"context"
	"fmt"
	"log"

	"github.com/poiesic/depot"
	"github.com/poiesic/depot/core"
	"github.com/poiesic/depot/storage"
	"github.com/poiesic/depot/storage/memory"
)

// Callers pick their own granularity of error handling: the conflict union
// is mapped to user-facing text here, while infrastructure failures pass
// through untouched for retry or alerting.
func ExampleService_Store() {
	svc, err := depot.NewService(memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	ctx := context.Background()

	first, err := core.NewRecord("id-123", "A title", []byte("payload"))
	if err != nil {
		log.Fatal(err)
	}
	if res := <-svc.Store(ctx, first); res.Err != nil {
		log.Fatal(res.Err)
	}

	second, err := core.NewRecord("id-456", "A title", []byte("other payload"))
	if err != nil {
		log.Fatal(err)
	}
	res := <-svc.Store(ctx, second)

	if conflict, ok := storage.AsConflict(res.Err); ok {
		switch conflict.Kind {
		case storage.ConflictDuplicateID:
			fmt.Printf("ID %s is taken, please pick a new one\n", conflict.Record.Id)
		case storage.ConflictDuplicateTitle:
			fmt.Printf("title %q is taken, please pick a new one\n", conflict.Record.Title)
		}
	} else if res.Err != nil {
		log.Fatal(res.Err) // infrastructure failure: retry or alert, don't pattern-match
	}

	// Output: title "A title" is taken, please pick a new one
}
