/*
Package runner implements the interactive terminal loop over a ragso Conversation.

It reads lines through a pluggable IOHandler, turns them into dialog triggers
and writes back the turns each trigger appended. Plain lines are utterances;
lines starting with a slash are commands:

	/quick N     send quick reply N
	/seat ID     select a seat
	/book ID     select a bibliographic record
	/item ID     select a copy
	/hold ID     request a hold on the selected copy
	/yes, /no    answer the open confirmation prompt
	/buy ID      request purchase of an unheld title
	/help        show the quick replies and commands
	/quit        leave

# Usage

	conv, _ := engine.Start(ctx, "user-1")
	r := runner.NewRunner(engine, conv,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
