package pqueue_test

import (
	"fmt"

	"github.com/cubeplusplus/dispatch/pqueue"
)

func Example() {
	queue, err := pqueue.NewDefault[string](4)
	if err != nil {
		panic(err)
	}

	queue.Send("routine", pqueue.PriorityNormal)
	queue.Send("background", pqueue.PriorityLow)
	queue.Send("urgent", pqueue.PriorityHigh)
	queue.Send("routine again", pqueue.PriorityNormal)

	for !queue.IsEmpty() {
		item, _ := queue.Receive(0)
		fmt.Println(item)
	}

	// Output:
	// urgent
	// routine
	// routine again
	// background
}
