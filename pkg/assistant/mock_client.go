package assistant

// MockClient records asks and returns a canned reply. Used in tests and when
// no assistant service is configured.
type MockClient struct {
	Reply      string
	Asked      []string
	LastUnitID string
	LastStatus string
}

func NewMockClient(reply string) *MockClient {
	return &MockClient{Reply: reply}
}

func (c *MockClient) Ask(message, unitID, status string) string {
	c.Asked = append(c.Asked, message)
	c.LastUnitID = unitID
	c.LastStatus = status
	if c.Reply == "" {
		return FailureReply
	}
	return c.Reply
}
