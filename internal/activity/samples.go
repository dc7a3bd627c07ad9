package activity

// Sample returns fixed, fully populated data for kind. The layout preview
// renders these without calling any backend.
func Sample(kind Kind) Activity {
	switch Normalize(string(kind)) {
	case KindTrueFalseQuiz:
		return TrueFalseQuiz{
			Instruction: "Read each sentence and circle O if it is true or X if it is false.",
			Items: []string{
				"The newspaper machine was fixed by a robot.",
				"Robots can never learn new things.",
				"Working together makes hard jobs easier.",
			},
		}
	case KindHiddenObjects:
		return HiddenObjects{
			Instruction: "Find the five things hiding in the picture!",
			Items:       []string{"pencil", "teacup", "key", "star", "sock"},
			ImagePrompt: "Black and white line art of a busy print shop with hidden objects",
		}
	case KindInitialConsonantQuiz:
		return InitialConsonantQuiz{
			Instruction: "Guess the word from the clue and its first letters.",
			Items: []InitialClue{
				{Clue: "A machine that helps people", Initials: []string{"R", "T"}},
				{Clue: "Paper that tells today's stories", Initials: []string{"N", "S"}},
				{Clue: "Doing a job together", Initials: []string{"T", "W"}},
			},
		}
	case KindEmotionGuess:
		return EmotionGuess{
			Scenario: "Your friend's tower of blocks just fell down.",
			Emotions: []Emotion{
				{Type: "sad", Prompt: "a child with teary eyes and a small frown"},
				{Type: "surprised", Prompt: "a child with wide eyes and an open mouth"},
				{Type: "determined", Prompt: "a child with a firm smile rolling up sleeves"},
			},
		}
	case KindColoringPage:
		return ColoringPage{
			Instruction: "Color the picture with all your favorite colors!",
			ImagePrompt: "Black and white simple line art for kids coloring book, friendly robot, white background, thick lines, no shading",
		}
	case KindFourPanelComic:
		return FourPanelComic{
			Instruction:      "Look at the first panel and draw the rest of the story!",
			FirstCutDialogue: "Oops! Who put jam in the printing machine?",
			ImagePrompt:      "Black and white simple line art for kids, robot theme, the first scene of a story, white background, thick lines, no shading",
		}
	default:
		return FreeResponse{
			Title:       "My Idea Notebook",
			Instruction: "Draw or write what you would invent to help your friends.",
		}
	}
}
