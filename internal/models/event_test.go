package models

import "testing"

func TestEventBaseImplementations(t *testing.T) {
	base := Base{Type: EventTaskStarted, AgentID: "a1", AgentName: "agent_a1", EventID: "e1", Sequence: 1}

	var events = []Event{
		TaskStartedEvent{Base: base},
		StepStartedEvent{Base: base},
		PromptGeneratedEvent{Base: base},
		StreamTokenEvent{Base: base},
		ThoughtGeneratedEvent{Base: base},
		ActionGeneratedEvent{Base: base},
		ToolExecutionStartedEvent{Base: base},
		ToolConfirmationRequestEvent{Base: base},
		ToolExecutionCompletedEvent{Base: base},
		ToolExecutionErrorEvent{Base: base},
		ActionExecutedEvent{Base: base},
		StepCompletedEvent{Base: base},
		ErrorOccurredEvent{Base: base},
		TaskCompletedEvent{Base: base},
	}

	for _, ev := range events {
		if got := ev.EventBase(); got.EventID != "e1" {
			t.Errorf("%T.EventBase().EventID = %q, want %q", ev, got.EventID, "e1")
		}
	}
}

func TestToolConfirmationRequestEventRespondOnce(t *testing.T) {
	ch := make(chan ConfirmationResponse, 1)
	ev := ToolConfirmationRequestEvent{
		Base:    Base{Type: EventToolConfirmationAsked},
		Respond: ch,
	}
	ev.Respond <- ConfirmationResponse{Approved: true}
	close(ch)

	got, ok := <-ch
	if !ok || !got.Approved {
		t.Fatalf("expected a single approved response, got %#v ok=%v", got, ok)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed after single send")
	}
}
