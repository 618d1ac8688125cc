package domain

// Envelope is the only shape the relay ever sees: two public-key addresses
// in hex and an opaque payload. No plaintext, field labels, or visibility
// rules cross this boundary.
type Envelope struct {
	To        string `json:"to"`   // recipient identity public key, hex
	From      string `json:"from"` // sender identity public key, hex
	Payload   []byte `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}

// WireMessage is the payload structure inside an Envelope, serialized before
// handing to the relay. Hello is present only on the first message of an
// exchange.
type WireMessage struct {
	Hello  *ExchangeHello `json:"hello,omitempty"`
	Header RatchetHeader  `json:"header"`
	Cipher []byte         `json:"cipher"`
}
