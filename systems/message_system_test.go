package systems

import (
	"strings"
	"testing"
)

func TestMessageLogKeepsNewest(t *testing.T) {
	ml := NewMessageLog()
	ml.MaxMessages = 3
	for i := 1; i <= 5; i++ {
		ml.Addf("message %d", i)
	}

	if len(ml.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(ml.Messages))
	}
	recent := ml.RecentMessages(10)
	for i, want := range []string{"message 5", "message 4", "message 3"} {
		if recent[i] != want {
			t.Errorf("recent[%d] = %q, want %q", i, recent[i], want)
		}
	}

	ml.Clear()
	if len(ml.RecentMessages(2)) != 0 {
		t.Error("Clear left messages behind")
	}
}

func TestSessionLogsLevelLoads(t *testing.T) {
	s := newTestSession(t, testConfig())
	if err := s.NextLevel(); err != nil {
		t.Fatal(err)
	}
	recent := s.Messages().RecentMessages(1)
	if len(recent) != 1 || !strings.HasPrefix(recent[0], "Floor 2 ") {
		t.Errorf("unexpected latest message %v", recent)
	}
}
