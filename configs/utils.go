package configs

import (
	"fmt"
	"github.com/goccy/go-json"
	"log"
	"time"
)

// TxnPrint emits one structured log line per phase entry: (tx_id, phase, outcome).
func TxnPrint(txnID string, format string, a ...interface{}) {
	if ShowDebugInfo {
		msg := time.Now().Format("15:04:05.00") + " <---> TXN" + txnID + ": " + fmt.Sprintf(format, a...)
		if LogToFile {
			log.Print(msg)
		} else {
			fmt.Println(msg)
		}
	}
}

func DPrintf(format string, a ...interface{}) {
	if ShowDebugInfo {
		msg := time.Now().Format("15:04:05.00") + " <---> " + fmt.Sprintf(format, a...)
		if LogToFile {
			log.Print(msg)
		} else {
			fmt.Println(msg)
		}
	}
}

func TPrintf(format string, a ...interface{}) {
	if ShowTestInfo {
		msg := time.Now().Format("15:04:05.00") + " <---> " + fmt.Sprintf(format, a...)
		if LogToFile {
			log.Print(msg)
		} else {
			fmt.Println(msg)
		}
	}
}

func JPrint(v interface{}) {
	byt, _ := json.Marshal(v)
	fmt.Println(string(byt))
}

// Assert panics on an invariant violation: a programming bug, never a business outcome.
func Assert(cond bool, msg string) bool {
	if !cond {
		panic("[ERROR] assertion failed: " + msg)
	}
	return cond
}

func Warn(cond bool, msg string) bool {
	if ShowWarnings && !cond {
		if LogToFile {
			log.Print("[WARNING] " + msg)
		} else {
			fmt.Println("[WARNING] " + msg)
		}
	}
	return cond
}

func CheckError(err error) {
	if err != nil {
		panic(err.Error())
	}
}
