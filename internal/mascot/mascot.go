// Package mascot holds the floating mascot's state. It is advanced by
// discrete events and read through View.
package mascot

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ivlev/babaru/internal/eggs"
)

const (
	CommentHold  = 3 * time.Second
	ClickWindow  = 2 * time.Second
	ClicksNeeded = 10
	IdleAfter    = 2 * time.Minute
	SpinDuration = time.Second
	TalkBoost    = 0.2
)

const (
	dizzyComment = "OKAY OKAY I GET IT! 😵‍💫"
	sleepComment = "💤 Zzz... (wake me up for the good parts...)"
	partyComment = "🎉 PARTY MODE ACTIVATED! 🎊"
)

type reaction struct {
	mood    Mood
	comment string
}

var reactions = []reaction{
	{Excited, "That tickles! 😄"},
	{Mischievous, "Poking me, huh? Bold move!"},
	{Happy, "Hi! 👋 Need something?"},
	{Proud, "I know, I'm adorable."},
}

// Unlocker unlocks achievements.
type Unlocker interface {
	Unlock(id string) (eggs.Achievement, bool)
}

// View is a snapshot for drawing.
type View struct {
	Mood      Mood    `json:"mood"`
	Image     string  `json:"image"`
	Comment   string  `json:"comment,omitempty"`
	Idle      bool    `json:"idle"`
	ChatOpen  bool    `json:"chatOpen"`
	Loading   bool    `json:"loading"`
	Speaking  bool    `json:"speaking"`
	TalkScale float64 `json:"talkScale"`
	Spinning  bool    `json:"spinning"`
}

// Mascot is safe for concurrent use.
type Mascot struct {
	rand     Rand
	unlocker Unlocker

	mu           sync.Mutex
	mood         Mood
	comment      string
	commentUntil time.Time // zero: until replaced
	clicks       int
	lastClick    time.Time
	lastActive   time.Time
	idle         bool
	chatOpen     bool
	loading      bool
	speaking     bool
	amplitude    float64
	spinUntil    time.Time
}

// New creates a happy mascot active at now. A nil r uses a fixed PCG
// source; unlocker may be nil.
func New(now time.Time, r Rand, unlocker Unlocker) *Mascot {
	if r == nil {
		r = rand.New(rand.NewPCG(1, 2))
	}
	return &Mascot{rand: r, unlocker: unlocker, mood: Happy, lastActive: now}
}

func (m *Mascot) say(mood Mood, comment string, until time.Time) {
	m.mood = mood
	m.comment = comment
	m.commentUntil = until
}

// Click reacts to a click. The tenth click within rolling two second gaps
// unlocks click10 and spins the mascot.
func (m *Mascot) Click(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch(now)

	if !m.lastClick.IsZero() && now.Sub(m.lastClick) >= ClickWindow {
		m.clicks = 0
	}
	m.clicks++
	m.lastClick = now

	if m.clicks >= ClicksNeeded {
		m.clicks = 0
		m.say(Shocked, dizzyComment, now.Add(CommentHold))
		m.spinUntil = now.Add(SpinDuration)
		if m.unlocker != nil {
			m.unlocker.Unlock(eggs.Click10)
		}
		return
	}
	r := reactions[m.rand.IntN(len(reactions))]
	m.say(r.mood, r.comment, now.Add(CommentHold))
}

// Activity records pointer, key or scroll input.
func (m *Mascot) Activity(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch(now)
}

func (m *Mascot) touch(now time.Time) {
	m.lastActive = now
	if m.idle {
		m.idle = false
		m.say(Happy, "", time.Time{})
	}
}

// Tick expires comments and detects idleness.
func (m *Mascot) Tick(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.commentUntil.IsZero() && !now.Before(m.commentUntil) {
		m.say(Happy, "", time.Time{})
	}
	if !m.idle && now.Sub(m.lastActive) >= IdleAfter {
		m.idle = true
		m.say(Tired, sleepComment, time.Time{})
		if m.unlocker != nil {
			m.unlocker.Unlock(eggs.Idle)
		}
	}
}

// Greet shows a greeting for the hero placement.
func (m *Mascot) Greet(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.say(Excited, Comment(Greeting, now.Hour(), m.rand), time.Time{})
}

// Party shows the Konami reaction.
func (m *Mascot) Party(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.say(Excited, partyComment, time.Time{})
}

// Say shows a topic comment for hold.
func (m *Mascot) Say(topic Topic, now time.Time, hold time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.say(MoodFor(topic), Comment(topic, now.Hour(), m.rand), now.Add(hold))
}

func (m *Mascot) SetChatOpen(open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatOpen = open
}

func (m *Mascot) SetLoading(loading bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = loading
}

// Speak sets the talk amplitude. A negative amplitude stops speaking.
func (m *Mascot) Speak(amplitude float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if amplitude < 0 {
		m.speaking = false
		m.amplitude = 0
		return
	}
	m.speaking = true
	m.amplitude = min(amplitude, 1)
}

// View returns the current state. Speaking wins over loading, which wins
// over the reaction mood.
func (m *Mascot) View(now time.Time) View {
	m.mu.Lock()
	defer m.mu.Unlock()

	mood := m.mood
	switch {
	case m.speaking:
		mood = Excited
	case m.loading:
		mood = Mischievous
	}
	scale := 1.0
	if m.speaking {
		scale = 1 + m.amplitude*TalkBoost
	}
	return View{
		Mood:      mood,
		Image:     Images[mood],
		Comment:   m.comment,
		Idle:      m.idle,
		ChatOpen:  m.chatOpen,
		Loading:   m.loading,
		Speaking:  m.speaking,
		TalkScale: scale,
		Spinning:  now.Before(m.spinUntil),
	}
}
