package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"aurelia/internal/logging"
	"aurelia/internal/types"
)

// QueryStream submits a query and returns the ordered increment stream for
// it. The channel closes when the server ends the stream; the returned
// cancel func abandons it early. Increment ordering matches arrival order.
func (c *Client) QueryStream(ctx context.Context, queryReq QueryRequest) (<-chan types.StreamIncrement, func(), error) {
	if err := c.ensureToken(); err != nil {
		return nil, nil, err
	}

	payload, err := json.Marshal(queryReq)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/qa/stream", bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Trace-Id", uuid.NewString())
	req.Header.Set("Authorization", "Bearer "+c.token)

	// The shared client's timeout would sever long generations; streams get
	// a dedicated client bounded only by ctx.
	streamClient := &http.Client{Transport: c.http.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, &APIError{Kind: KindTransport, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		cancel()
		return nil, nil, decodeEnvelope(resp, nil)
	}

	ch := make(chan types.StreamIncrement, 64)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		start := time.Now()
		count := 0
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		var dataLines []string

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if len(dataLines) == 0 {
					continue
				}
				payload := strings.Join(dataLines, "\n")
				dataLines = dataLines[:0]
				var inc types.StreamIncrement
				if err := json.Unmarshal([]byte(payload), &inc); err != nil {
					continue
				}
				select {
				case ch <- inc:
					count++
				case <-ctx.Done():
					return
				}
				continue
			}
			if strings.HasPrefix(line, "data:") {
				dataLines = append(dataLines, strings.TrimSpace(line[len("data:"):]))
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			select {
			case ch <- types.StreamIncrement{Kind: types.IncrementError, Message: err.Error()}:
			case <-ctx.Done():
			}
		}
		c.log.Debug("query stream closed",
			logging.F("session", queryReq.SessionID),
			logging.F("increments", count),
			logging.F("dur", time.Since(start)),
		)
	}()

	return ch, cancel, nil
}
