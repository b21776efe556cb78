package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func BenchmarkStore_PushPop(b *testing.B) {
	ctx := context.Background()
	s := NewStore()
	if err := s.OpenAt(filepath.Join(b.TempDir(), "bench.db"), "/stages/bench.yaml"); err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	paths := make([]string, 50)
	for i := range paths {
		paths[i] = fmt.Sprintf("/World/Looks/M%03d", i)
	}
	rec := record(time.Now(), paths...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Push(ctx, rec); err != nil {
			b.Fatal(err)
		}
		if _, err := s.Pop(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
