package assistant

const (
	greetingText = "Hello! I'm glad to help. You can say 'switch mode' or type it to change between voice and text input."
	farewellText = "Goodbye! Have a great day!"
	shutdownText = "Shutting down. Goodbye!"

	toVoiceText     = "Switching to voice mode. Say the wake word to begin."
	toTextText      = "Switching to text mode. Type your commands."
	backToVoiceText = "Switching back to voice mode. Say the wake word to begin."

	identityText = "I'm Alexa, your personal voice assistant. I can help you with tasks, answer questions, play music, and keep you entertained."
	helpText     = "I can tell you the time, date, weather, open websites, search the web, play music, control volume, set reminders, tell jokes, provide news updates, calculate math expressions, and answer general knowledge questions. Just ask me what you need!"
)

// acknowledgements are short filler words spoken before multi-step actions so
// the user knows the command landed.
var acknowledgements = []string{
	"Okay",
	"Alright",
	"Sure",
	"Got it",
	"I'm on it",
	"Right away",
}

var thanksResponses = []string{
	"You're welcome!",
	"Happy to help!",
	"No problem!",
	"Anytime!",
	"My pleasure!",
}

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
	"What do you call a fake noodle? An impasta!",
	"What's the best thing about Switzerland? I don't know, but the flag is a big plus!",
	"I told my wife she was drawing her eyebrows too high. She looked surprised!",
	"I asked the gym instructor if he could teach me to do the splits. He replied, 'How flexible are you?' I said, 'I can't make Tuesdays.'",
	"Why did the bicycle fall over? Because it was two tired!",
	"Time flies like an arrow. Fruit flies like a banana.",
	"I'm on a seafood diet. Every time I see food, I eat it!",
	"What's orange and sounds like a parrot? A carrot!",
}
