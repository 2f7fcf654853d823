package at

const (
	// Terminal Control
	CR   = '\r'
	LF   = '\n'
	CRLF = "\r\n"

	// Response Codes
	OK    = "OK"
	ERROR = "ERROR"

	// Commands
	CmdAt          = "AT"
	CmdVersion     = "AT+GMR"
	CmdSoilMoist   = "AT+SOILM?"
	CmdCalibrateLo = "AT+MINSOILM"
	CmdCalibrateHi = "AT+MAXSOILM"
	CmdPumpOff     = "AT+PUMPOFF"
	CmdPumpPrefix  = "AT+PUMP="

	// Diagnostic lines preceding ERROR
	MsgUnknownCommand   = "unknown command"
	MsgSoilUnconfigured = "soil moisture pin (PIN_SOILM) is not configured"
	MsgPumpUnconfigured = "pump pin (PIN_PUMP) is not configured"
	MsgSoilReadFailed   = "soil moisture read failed"
	MsgPumpDriveFailed  = "pump drive failed"
)

type ResponseType int

const (
	TypeFinal ResponseType = iota // OK, ERROR
	TypeData                      // Intermediate command output (raw value, version)
)
