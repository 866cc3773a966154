package mascot

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/babaru/internal/eggs"
)

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

type recorder struct{ ids []string }

func (r *recorder) Unlock(id string) (eggs.Achievement, bool) {
	r.ids = append(r.ids, id)
	return eggs.Achievement{ID: id, Found: true}, true
}

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestTimeGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Up late"},
		{5, "Up late"},
		{6, "Good morning"},
		{12, "Afternoon"},
		{17, "Evening"},
		{21, "Night owl"},
		{23, "Night owl"},
	}
	for _, tt := range tests {
		if got := TimeGreeting(tt.hour); !strings.Contains(got, tt.want) {
			t.Errorf("TimeGreeting(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestComment(t *testing.T) {
	if got := Comment(Greeting, 8, fixedRand(0)); got != TimeGreeting(8) {
		t.Errorf("greeting with 0 roll = %q, want time greeting", got)
	}
	if got := Comment(Greeting, 8, fixedRand(1)); got == TimeGreeting(8) {
		t.Error("greeting with 1 roll should come from the catalog")
	}
	if got := Comment(Loading, 8, fixedRand(0)); got != comments[Loading].messages[0] {
		t.Errorf("loading = %q", got)
	}
	if got := Comment(Topic("nope"), 8, fixedRand(0)); got != "" {
		t.Errorf("unknown topic = %q", got)
	}
	if MoodFor(Error) != Confused || MoodFor(Empty) != Sad || MoodFor(Topic("nope")) != Happy {
		t.Error("unexpected topic moods")
	}
	if got := ProductionComment(fixedRand(7)); got != ProductionComments[2] {
		t.Errorf("ProductionComment = %q", got)
	}
}

func TestEveryMoodHasImage(t *testing.T) {
	for _, m := range []Mood{Happy, Excited, Mischievous, Sad, Shocked, Confused, Proud, Tired} {
		if Images[m] == "" {
			t.Errorf("no image for %s", m)
		}
	}
}

func TestClickReactionExpires(t *testing.T) {
	m := New(t0, fixedRand(3), nil)
	m.Click(t0)

	v := m.View(t0)
	if v.Mood != Proud || v.Comment != "I know, I'm adorable." {
		t.Fatalf("after click = %+v", v)
	}

	m.Tick(t0.Add(CommentHold - time.Millisecond))
	if m.View(t0).Comment == "" {
		t.Error("comment cleared too early")
	}
	m.Tick(t0.Add(CommentHold))
	v = m.View(t0.Add(CommentHold))
	if v.Comment != "" || v.Mood != Happy {
		t.Errorf("after hold = %+v", v)
	}
}

func TestTenRapidClicks(t *testing.T) {
	rec := &recorder{}
	m := New(t0, fixedRand(0), rec)

	now := t0
	for i := 0; i < ClicksNeeded; i++ {
		m.Click(now)
		now = now.Add(500 * time.Millisecond)
	}
	last := now.Add(-500 * time.Millisecond)

	v := m.View(last)
	if v.Mood != Shocked || !v.Spinning {
		t.Errorf("after ten clicks = %+v", v)
	}
	if len(rec.ids) != 1 || rec.ids[0] != eggs.Click10 {
		t.Errorf("unlocked = %v", rec.ids)
	}
	if m.View(last.Add(SpinDuration)).Spinning {
		t.Error("still spinning after spin duration")
	}
}

func TestSlowClicksResetCount(t *testing.T) {
	rec := &recorder{}
	m := New(t0, fixedRand(0), rec)

	now := t0
	for i := 0; i < 2*ClicksNeeded; i++ {
		m.Click(now)
		now = now.Add(ClickWindow)
	}
	if len(rec.ids) != 0 {
		t.Errorf("unlocked %v with slow clicks", rec.ids)
	}
}

func TestIdle(t *testing.T) {
	rec := &recorder{}
	m := New(t0, fixedRand(0), rec)

	m.Tick(t0.Add(IdleAfter - time.Second))
	if m.View(t0).Idle {
		t.Fatal("idle too early")
	}

	at := t0.Add(IdleAfter)
	m.Tick(at)
	v := m.View(at)
	if !v.Idle || v.Mood != Tired || !strings.Contains(v.Comment, "Zzz") {
		t.Errorf("idle view = %+v", v)
	}
	m.Tick(at.Add(time.Minute))
	if len(rec.ids) != 1 || rec.ids[0] != eggs.Idle {
		t.Errorf("unlocked = %v", rec.ids)
	}

	m.Activity(at.Add(2 * time.Minute))
	v = m.View(at)
	if v.Idle || v.Mood != Happy || v.Comment != "" {
		t.Errorf("after activity = %+v", v)
	}
}

func TestMoodPriority(t *testing.T) {
	m := New(t0, fixedRand(0), nil)
	if v := m.View(t0); v.Mood != Happy || v.TalkScale != 1 {
		t.Errorf("default = %+v", v)
	}

	m.SetLoading(true)
	if v := m.View(t0); v.Mood != Mischievous {
		t.Errorf("loading mood = %s", v.Mood)
	}

	m.Speak(0.5)
	v := m.View(t0)
	if v.Mood != Excited || math.Abs(v.TalkScale-1.1) > 1e-9 {
		t.Errorf("speaking = %+v", v)
	}

	m.Speak(3)
	if v := m.View(t0); math.Abs(v.TalkScale-1.2) > 1e-9 {
		t.Errorf("clamped talk scale = %v", v.TalkScale)
	}

	m.Speak(-1)
	m.SetLoading(false)
	if v := m.View(t0); v.Mood != Happy || v.Speaking || v.TalkScale != 1 {
		t.Errorf("after speaking = %+v", v)
	}
}

func TestChatAndParty(t *testing.T) {
	m := New(t0, fixedRand(1), nil)
	m.SetChatOpen(true)
	m.Party(t0)
	v := m.View(t0)
	if !v.ChatOpen || v.Mood != Excited || !strings.Contains(v.Comment, "PARTY MODE") {
		t.Errorf("party view = %+v", v)
	}
	m.SetChatOpen(false)
	if m.View(t0).ChatOpen {
		t.Error("chat still open")
	}

	m.Greet(t0)
	if got := m.View(t0).Comment; got != comments[Greeting].messages[1] {
		t.Errorf("greeting = %q", got)
	}

	m.Say(Error, t0, time.Second)
	v = m.View(t0)
	if v.Mood != Confused {
		t.Errorf("error mood = %s", v.Mood)
	}
	m.Tick(t0.Add(time.Second))
	if m.View(t0).Comment != "" {
		t.Error("said comment did not expire")
	}
}

func TestNilRandDefaults(t *testing.T) {
	m := New(t0, nil, nil)
	m.Click(t0)
	m.Greet(t0)
	if v := m.View(t0); v.Comment == "" {
		t.Error("Expected a greeting from the default source")
	}
}
