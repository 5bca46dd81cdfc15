package enrich

import (
	"fmt"

	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/variant"
)

// ConnQuerier issues cursor queries over a live service connection.
type ConnQuerier struct {
	Conn service.Conn
}

// CursorInfo implements CursorQuerier. The request is rebuilt from the
// query context each time; the service wants the full compiler invocation
// on every call.
func (q *ConnQuerier) CursorInfo(query *CursorQuery) (*variant.Dictionary, error) {
	req := service.CursorInfoTemplate(query.SourceFile, query.CompilerArgs)
	req.Set(service.KeyOffset, variant.Int(query.Offset))

	resp, err := q.Conn.Request(req)
	if err != nil {
		return nil, err
	}
	d, ok := resp.(*variant.Dictionary)
	if !ok {
		return nil, fmt.Errorf("cursor reply is %T, want dictionary", resp)
	}
	return d, nil
}
