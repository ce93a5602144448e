package mpsc_test

import (
	"fmt"
	"slices"
	"sync"

	"github.com/creachadair/mpsc"
)

func Example() {
	tx, rx := mpsc.New[string]()

	// Each producer gets its own sender, and closes it when finished.
	var wg sync.WaitGroup
	for _, fruit := range []string{"apple", "pear", "plum"} {
		ptx := tx.Clone()
		wg.Go(func() {
			defer ptx.Close()
			ptx.Send(fruit)
		})
	}

	// The original sender is not used to send, but it holds the channel open
	// until it is closed.
	tx.Close()

	// The receiver sees every item, and the loop ends once all the senders
	// have been closed.
	var got []string
	for v := range rx.All() {
		got = append(got, v)
	}
	wg.Wait()

	slices.Sort(got)
	fmt.Println(got)
	// Output:
	// [apple pear plum]
}

func ExampleReceiver_Recv() {
	tx, rx := mpsc.New[int]()
	tx.Send(1)
	tx.Send(2)
	tx.Close()

	for {
		v, ok := rx.Recv()
		if !ok {
			fmt.Println("closed")
			break
		}
		fmt.Println(v)
	}
	// Output:
	// 1
	// 2
	// closed
}
