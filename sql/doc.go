// Package sql provides the SQL compiler front end for MyDB.
//
// Compilation runs in three stages. Classify strips comments, marks string
// literal boundaries and assigns a category to every character. The Lexer
// walks the classified buffer and produces tokens on demand, consulting the
// keyword table. The Parser consumes tokens by recursive descent and builds
// a Prepared statement; for CREATE TABLE it builds a core.Table.
//
// # Lexer Usage
//
//	lexer := sql.NewLexer("SELECT * FROM users")
//	for {
//	    token, err := lexer.NextToken()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if token.Type == sql.End {
//	        break
//	    }
//	    fmt.Println(token)
//	}
//
// # Parser Usage
//
//	statement, err := sql.Parse("CREATE TABLE users (id NUMBER(10), name VARCHAR(20))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table := statement.(*sql.CreateTableStatement).Table
//
// # Supported Statements
//
//   - CreateTableStatement
//   - InsertStatement (first keyword only)
//   - SelectStatement (first keyword only)
//   - NoOperation (empty input or comments only)
//
// Every failure is reported as *Error. A Lexer that has failed keeps
// returning the same error and cannot be resumed.
package sql
