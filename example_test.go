package ragso_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/ragso"
	"github.com/aretw0/ragso/pkg/adapters/catalog"
)

// ExampleConversation shows a seat reservation from request to receipt.
func ExampleConversation() {
	ctx := context.Background()
	eng, err := ragso.New(catalog.NewDefault())
	if err != nil {
		log.Fatal(err)
	}
	conv, err := eng.Start(ctx, "example")
	if err != nil {
		log.Fatal(err)
	}

	turns, _ := conv.SubmitUtterance(ctx, "열람실 좌석을 예약하고 싶어요")
	fmt.Println(len(turns[1].Payload.Seats), "seats")

	turns, _ = conv.SelectSeat(ctx, "S233")
	prompt := turns[1]
	fmt.Println(prompt.Payload.Prompt.Subject)

	turns, _ = conv.Confirm(ctx, prompt.ID, true)
	fmt.Println(turns[1].Payload.Receipt.Kind, len(turns[1].Payload.Receipt.ConfirmationNumber))
	// Output:
	// 4 seats
	// 제1열람실-3, 좌석 233
	// seat 7
}
