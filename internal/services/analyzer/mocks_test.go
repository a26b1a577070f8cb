package analyzer

import (
	"context"
	"errors"
)

// mockClient records calls and plays back canned rows per table.
type mockClient struct {
	uploadCalled  bool
	uploadedData  []byte
	uploadURI     string
	uploadErr     error
	rowCalls      []rowCall
	rowsByTable   map[string]map[string]string
	rowErrByTable map[string]error
}

type rowCall struct {
	tableID string
	data    map[string]string
}

func (m *mockClient) UploadFile(_ context.Context, data []byte, _ string) (string, error) {
	m.uploadCalled = true
	m.uploadedData = data
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if m.uploadURI == "" {
		return "file://store/mock.jpg", nil
	}
	return m.uploadURI, nil
}

func (m *mockClient) AddActionRow(_ context.Context, tableID string, data map[string]string) (map[string]string, error) {
	m.rowCalls = append(m.rowCalls, rowCall{tableID: tableID, data: data})
	if err, ok := m.rowErrByTable[tableID]; ok {
		return nil, err
	}
	if out, ok := m.rowsByTable[tableID]; ok {
		return out, nil
	}
	return nil, errors.New("no canned row for table " + tableID)
}
