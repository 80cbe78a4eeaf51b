package amqp

import (
	"encoding/json"
	"time"
)

// Ações carried by a sync message.
const (
	AcaoExportar = "exportar"
	AcaoRemover  = "remover"
)

// FaturamentoSyncMessage is the lightweight message handed to the export
// worker. It carries only the faturamento id and the ação; the worker fetches
// the full row from the database when exporting.
type FaturamentoSyncMessage struct {
	FaturamentoID int64     `json:"faturamento_id"`
	Acao          string    `json:"acao"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewFaturamentoSyncMessage(id int64, acao string) *FaturamentoSyncMessage {
	return &FaturamentoSyncMessage{
		FaturamentoID: id,
		Acao:          acao,
		Timestamp:     time.Now(),
	}
}

func (m *FaturamentoSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func FaturamentoSyncMessageFromJSON(data []byte) (*FaturamentoSyncMessage, error) {
	var msg FaturamentoSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
