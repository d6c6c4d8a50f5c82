package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"unsafe"
)

//export mydb_open
func mydb_open() C.int {
	return C.int(handles.open())
}

//export mydb_close
func mydb_close(handle C.int) {
	handles.close(int(handle))
}

// mydb_execute returns a JSON response the caller must release with mydb_free.
//
//export mydb_execute
func mydb_execute(handle C.int, query *C.char) *C.char {
	return C.CString(string(handles.execute(int(handle), C.GoString(query))))
}

// mydb_compile compiles a script without executing it. The JSON response
// must be released with mydb_free.
//
//export mydb_compile
func mydb_compile(script *C.char) *C.char {
	return C.CString(string(compile(C.GoString(script))))
}

//export mydb_free
func mydb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func main() {}
