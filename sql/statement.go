package sql

import "github.com/nickyhof/MyDB/core"

type StatementType int

const (
	NoOperationType StatementType = iota
	CreateTableStatementType
	InsertStatementType
	SelectStatementType
)

func (statementType StatementType) String() string {
	switch statementType {
	case NoOperationType:
		return "NO OPERATION"
	case CreateTableStatementType:
		return "CREATE TABLE"
	case InsertStatementType:
		return "INSERT"
	case SelectStatementType:
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}

// Session is whatever executes prepared statements; a statement may be
// bound to one after parsing.
type Session interface {
	ID() string
}

// Prepared is the compiled form of one SQL statement.
type Prepared interface {
	Type() StatementType
	SQL() string
	Session() Session
	Bind(session Session)
}

type prepared struct {
	sql     string
	session Session
}

func (p *prepared) SQL() string {
	return p.sql
}

func (p *prepared) Session() Session {
	return p.session
}

func (p *prepared) Bind(session Session) {
	p.session = session
}

type CreateTableStatement struct {
	prepared
	Table *core.Table
}

// InsertStatement is recognised but its body is not parsed yet.
type InsertStatement struct {
	prepared
}

// SelectStatement is recognised but its body is not parsed yet.
type SelectStatement struct {
	prepared
}

// NoOperation is the result of an empty statement.
type NoOperation struct {
	prepared
}

func (s *CreateTableStatement) Type() StatementType {
	return CreateTableStatementType
}

func (s *InsertStatement) Type() StatementType {
	return InsertStatementType
}

func (s *SelectStatement) Type() StatementType {
	return SelectStatementType
}

func (s *NoOperation) Type() StatementType {
	return NoOperationType
}
