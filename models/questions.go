package models

// ProfileQuestions is the fixed catalog of questions users answer on their
// profile. Answers are referenced by index, both from profiles and from the
// first message of a conversation.
var ProfileQuestions = []string{
	// Personal growth & aspirations
	"Describe a moment when you completely changed your perspective on something important. What triggered this shift and how has it shaped who you are today?",
	"What's something you're working to improve about yourself right now, and what's driving that desire for change?",
	"If you could master any skill over the next five years, what would it be and how do you imagine it would transform your daily life?",

	// Values & life philosophy
	"Tell me about a time when you had to choose between what was easy and what was right. How did you navigate that decision?",
	"What's a belief or principle you hold that might surprise people who just met you, and why is it so important to you?",
	"Describe your ideal way to spend a completely free Saturday. What does this reveal about what you value most in life?",

	// Relationships & connection
	"What's the most meaningful piece of advice someone has given you about relationships, and how has it influenced how you connect with others?",
	"Describe a friendship that has significantly shaped who you are. What did this person teach you about yourself?",
	"How do you show someone you care about them when they're going through a difficult time?",

	// Passions & interests
	"What's something you could talk about for hours without getting bored, and what initially sparked your fascination with it?",
	"Describe your proudest creative or intellectual achievement. What challenges did you overcome to accomplish it?",
	"If you had unlimited resources to pursue any project or hobby, what would you create or explore?",

	// Life experiences & stories
	"Tell me about a travel experience (near or far) that genuinely changed your perspective on life or yourself.",
	"What's the most spontaneous thing you've ever done, and would you do it again? Why or why not?",
	"Describe a moment when you felt completely out of your comfort zone but grew from the experience.",

	// Future & dreams
	"If you could have dinner with anyone (living or dead), who would it be and what would you most want to learn from them?",
	"What's something you hope to accomplish in the next ten years that would make you feel truly fulfilled?",
	"How do you imagine your ideal living situation in five years? What elements are most important for your happiness?",

	// Character & personality
	"What's something you do when no one is watching that reveals your true character?",
	"Describe a time when you failed at something important. What did you learn and how did it change your approach to challenges?",
	"What makes you laugh until your stomach hurts? What does your sense of humor say about you?",

	// Childhood & family
	"What's a family tradition or childhood memory that still influences how you approach life today?",
	"What lesson from your childhood do you think shaped your personality the most, and how do you see it playing out in your adult life?",

	// Random but revealing
	"If you could instantly become an expert in any field of knowledge, what would you choose and what would you do with that expertise?",
	"What's something most people don't know about you that you wish they did? What would understanding this help them appreciate about who you are?",

	// Light-hearted & fun
	"What's your most controversial food opinion that you're willing to defend passionately, and what life experiences led you to this culinary stance?",
	"If you could have any fictional character as your roommate for a month, who would you choose and what do you think would be the most entertaining or challenging part of living with them?",
	"What's the weirdest compliment you've ever received that actually made you really happy, and why did it resonate with you so much?",
}

// ValidQuestionIndex reports whether i refers to a catalog question.
func ValidQuestionIndex(i int) bool {
	return i >= 0 && i < len(ProfileQuestions)
}
