package models

// starterTiles is the fixed catalog every new profile starts from.
var starterTiles = []Tile{
	{ID: "1", Text: "Hello", Icon: "👋", Category: CategoryGreetings, Position: 0},
	{ID: "2", Text: "Please", Icon: "🙏", Category: CategoryPoliteness, Position: 1},
	{ID: "3", Text: "Thank you", Icon: "🙏", Category: CategoryPoliteness, Position: 2},
	{ID: "4", Text: "Yes", Icon: "✅", Category: CategoryResponses, Position: 3},
	{ID: "5", Text: "No", Icon: "❌", Category: CategoryResponses, Position: 4},
	{ID: "6", Text: "Help", Icon: "🆘", Category: CategoryNeeds, Position: 5},
	{ID: "7", Text: "Eat", Icon: "🍽️", Category: CategoryNeeds, Position: 6},
	{ID: "8", Text: "Drink", Icon: "🥤", Category: CategoryNeeds, Position: 7},
	{ID: "9", Text: "Happy", Icon: "😊", Category: CategoryEmotions, Position: 8},
	{ID: "10", Text: "Sad", Icon: "😢", Category: CategoryEmotions, Position: 9},
	{ID: "11", Text: "Tired", Icon: "😴", Category: CategoryEmotions, Position: 10},
	{ID: "12", Text: "Play", Icon: "🎮", Category: CategoryActivities, Position: 11},
}

// DefaultTiles returns fresh tile instances of the starter catalog.
// Each call produces independent copies with zero usage history, so a
// new profile never shares usage state with any other profile.
func DefaultTiles() []Tile {
	return CloneTiles(starterTiles)
}
