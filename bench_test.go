package mpsc_test

import (
	"fmt"
	"testing"

	"github.com/creachadair/mds/value"
	"github.com/creachadair/mpsc"
	"github.com/creachadair/taskgroup"
)

func BenchmarkChannel(b *testing.B) {
	for _, batch := range []bool{true, false} {
		for _, np := range []int{1, 4, 16} {
			name := fmt.Sprintf("%s/P%d", value.Cond(batch, "Batched", "Unbatched"), np)
			b.Run(name, func(b *testing.B) {
				ctor := value.Cond(batch, mpsc.New[int], mpsc.NewUnbatched[int])
				tx, rx := ctor()

				g := taskgroup.New(nil)
				for p := range np {
					ptx := tx.Clone()
					g.Go(func() error {
						defer ptx.Close()
						for i := p; i < b.N; i += np {
							ptx.Send(i)
						}
						return nil
					})
				}
				tx.Close()

				var n int
				for range rx.All() {
					n++
				}
				g.Wait()
				if n != b.N {
					b.Fatalf("Received %d items, want %d", n, b.N)
				}
			})
		}
	}
}

// BenchmarkGoChannel is a baseline for comparison with BenchmarkChannel.
func BenchmarkGoChannel(b *testing.B) {
	for _, np := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("P%d", np), func(b *testing.B) {
			ch := make(chan int, 1024)
			g := taskgroup.New(nil)
			for p := range np {
				g.Go(func() error {
					for i := p; i < b.N; i += np {
						ch <- i
					}
					return nil
				})
			}
			go func() { g.Wait(); close(ch) }()

			var n int
			for range ch {
				n++
			}
			if n != b.N {
				b.Fatalf("Received %d items, want %d", n, b.N)
			}
		})
	}
}
