package game

// Director plays a game on its own, seeing only what a player would see
type Director interface {
	// Init is called once, with the board before the first move
	Init(View)

	// Act picks the next move, or returns false when it has none
	Act(View) (CellAction, bool)

	// End is called once the game is over or the director gave up
	End()
}
