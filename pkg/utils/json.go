package utils

import (
	"io"

	"github.com/sugawarayuuta/sonnet"
)

func EncodeJSON(writer io.Writer, data any) error {
	b, err := sonnet.Marshal(data)
	if err != nil {
		return err
	}

	_, err = writer.Write(append(b, '\n'))

	return err
}

func DecodeJSON(reader io.Reader, data any) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	return sonnet.Unmarshal(b, data)
}
