package core

// EncryptedBlob an aes-gcm sealed payload. Both fields are hex
// encoded; the gcm tag lives at the tail of Content.
type EncryptedBlob struct {
	IV      string `sql:"size:64" json:"iv"`
	Content string `sql:"size:2048" json:"content"`
}

// Cipher symmetric secret store cipher
type Cipher interface {
	Encrypt(plaintext []byte) (EncryptedBlob, error)
	Decrypt(blob EncryptedBlob) ([]byte, error)
}
