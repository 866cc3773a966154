package mascot

// Mood selects the mascot artwork.
type Mood string

const (
	Happy       Mood = "happy"
	Excited     Mood = "excited"
	Mischievous Mood = "mischievous"
	Sad         Mood = "sad"
	Shocked     Mood = "shocked"
	Confused    Mood = "confused"
	Proud       Mood = "proud"
	Tired       Mood = "tired"
)

// Images maps moods to artwork paths.
var Images = map[Mood]string{
	Happy:       "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.13.jpeg",
	Excited:     "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.13 (1).jpeg",
	Mischievous: "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.28 (1).jpeg",
	Confused:    "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.28.jpeg",
	Shocked:     "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.27 (1).jpeg",
	Proud:       "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.27.jpeg",
	Sad:         "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.28.jpeg",
	Tired:       "/babaru_design/WhatsApp Image 2026-02-06 at 14.03.28.jpeg",
}

// Topic groups comments by situation.
type Topic string

const (
	Greeting    Topic = "greeting"
	Hover       Topic = "hover"
	Loading     Topic = "loading"
	Error       Topic = "error"
	Achievement Topic = "achievement"
	Random      Topic = "random"
	Empty       Topic = "empty"
	Comic       Topic = "comic"
)

type commentSet struct {
	messages []string
	mood     Mood
}

var comments = map[Topic]commentSet{
	Greeting: {mood: Excited, messages: []string{
		"Oh! You're here! I was wondering when you'd show up! 👋",
		"Welcome to the Carnival! 🎪 (I run the show here, obviously.)",
		"Hi! I'm Babaru! 👋 Your new best friend! (Whether you like it or not!)",
		"Look who decided to grace us with their presence! ✨",
		"The Ringmaster has arrived— oh wait, that's me. YOU arrived! 🎭",
		"Finally! Someone who appreciates good content! 📺",
	}},
	Hover: {mood: Mischievous, messages: []string{
		"Ooh! 👀 This one's got EXPLOSIONS! (Allegedly.)",
		"I haven't actually watched this one. Don't tell anyone.",
		"The artist cried making this one. Happy tears! (Mostly.)",
		"Click it! CLICK IT! Do it! 🎬",
		"My favorite! (I say that about all of them.)",
		"This one's so good it made me reconsider my life choices.",
	}},
	Loading: {mood: Happy, messages: []string{
		"Waking up the pixel hamsters... 🐹",
		"Teaching pixels how to dance... 💃",
		"Bribing the server hamsters... (They want overtime pay)",
		"Consulting the ancient comic scrolls... 📜",
		"Herding digital cats... 🐱 (This might take a while)",
		"Calibrating the chaos engine... ⚙️",
		"The hamsters unionized. We're in negotiations.",
	}},
	Error: {mood: Confused, messages: []string{
		"Well THIS is embarrassing. 😬",
		"The internet gremlins ate your request. (They needed the fiber.)",
		"Houston, we have a problem! 🚀 (Actually it's me. I'm Houston.)",
		"Something broke! Wasn't me! (It was probably me.)",
		"Error 404: My dignity also not found. 🙈",
	}},
	Achievement: {mood: Excited, messages: []string{
		"You found it! You're basically a detective! 🕵️",
		"ACHIEVEMENT UNLOCKED! You absolute legend! 🏆",
		"Well well well, look who's clever! ✨",
		"I'm genuinely impressed! (That doesn't happen often.)",
		"The Carnival celebrates you today! 🎪",
	}},
	Random: {mood: Mischievous, messages: []string{
		"I'm 8 inches tall and I'm still right. 🎭",
		"You're taking advice from a stuffed clown. Sit with that.",
		"I don't have hands and I'm still carrying this conversation.",
		"Just checking in! Still here! Still adorable! ✨",
		"Fun fact: I think about comics approximately 78% of the time.",
		"Did you know you've been here for a while? (I'm not judging. Much.)",
		"The artist is probably crying somewhere. Standard Tuesday.",
		"Remember to drink water! (I can't drink water but I care about you.)",
	}},
	Empty: {mood: Sad, messages: []string{
		"Your watchlist is lonelier than me at a party. Let's fix that! ✨",
		"Nothing here yet! Like my social calendar! 📅",
		"It's so empty... like my patience for bad takes. 😌",
		"Add something! I believe in you! (Low bar, but still.)",
	}},
	Comic: {mood: Excited, messages: []string{
		"📺 On Air Now - Hot off the presses! (They're literally still warm!)",
		"🎬 Coming Soon - Sneak peeks! (Don't tell the artist I showed you!)",
		"⚡ Babaru's Faves - My personal stash (I have EXCELLENT taste)",
		"🔥 Action-Packed Mayhem - For when talking is overrated",
		"😂 Comedy Gold - Guaranteed to make you exhale through your nose",
		"🎨 Visual Feasts - Pretty pictures for your eyeballs",
		"🌙 Experimental & Weird - I... I don't know what these are tbh",
	}},
}

// ProductionComments are shown on items still in the works.
var ProductionComments = []string{
	"🎨 Our artist is cooking! (Literally. They're making lunch. Comics come after.)",
	"⏰ Coming soon™! (Very soon! Maybe! Time is relative!)",
	"🔨 Under construction! (And by construction I mean the artist's mental breakdown)",
	"📺 In production! (Which means I'm bothering the artist daily for updates)",
	"🎬 The cameras are rolling! (By cameras I mean the artist's tired eyes)",
}

// Rand picks indexes. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// TimeGreeting returns the greeting for an hour of the day.
func TimeGreeting(hour int) string {
	switch {
	case hour < 6:
		return "😴 Up late? Me too! The chaos never sleeps! 🌙"
	case hour < 12:
		return "☀️ Good morning! Ready for some comics? (The coffee can wait.)"
	case hour < 17:
		return "👋 Afternoon! Perfect time to procrastinate with comics!"
	case hour < 21:
		return "🌆 Evening! Reward yourself with animated chaos!"
	default:
		return "🌙 Night owl, huh? I respect the dedication. 🦉"
	}
}

// Comment picks a line for topic. Greetings are time based half of the
// time. Unknown topics return "".
func Comment(topic Topic, hour int, r Rand) string {
	if topic == Greeting && r.IntN(2) == 0 {
		return TimeGreeting(hour)
	}
	set, ok := comments[topic]
	if !ok {
		return ""
	}
	return set.messages[r.IntN(len(set.messages))]
}

// MoodFor returns the mood that goes with topic.
// Valid reports whether the catalog has lines for t.
func (t Topic) Valid() bool {
	_, ok := comments[t]
	return ok
}

func MoodFor(topic Topic) Mood {
	if set, ok := comments[topic]; ok && set.mood != "" {
		return set.mood
	}
	return Happy
}

// ProductionComment picks a line for an item in production.
func ProductionComment(r Rand) string {
	return ProductionComments[r.IntN(len(ProductionComments))]
}
