package client_test

import (
	gomock "go.uber.org/mock/gomock"

	"i4.energy/across/plantnode/transport"
)

type MockSequenceBuilder struct {
	transport *transport.MockTransport
	calls     []any
}

func NewMockSequence(t *transport.MockTransport) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		transport: t,
		calls:     []any{},
	}
}

// Reply expects cmd to be written and answers with resp.
func (b *MockSequenceBuilder) Reply(cmd, resp string) *MockSequenceBuilder {
	wire := cmd + "\r\n"
	b.calls = append(b.calls,
		b.transport.EXPECT().Write([]byte(wire)).Return(len(wire), nil),
		b.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			return copy(p, resp), nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) AT() *MockSequenceBuilder {
	return b.Reply("AT", "OK\r\n")
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}

func initMockCalls(t *transport.MockTransport) []any {
	return NewMockSequence(t).AT().Build()
}
