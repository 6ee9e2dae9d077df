package util

import "github.com/vmihailenco/msgpack"

// ToByteSlice marshals obj and returns it zero-padded to pageSize bytes, the
// caller's page size, so this package stays free of any dependency on the
// disk layer's constants.
func ToByteSlice[T any](obj T, pageSize int) ([]byte, error) {
	res := make([]byte, pageSize)

	data, err := msgpack.Marshal(obj)
	if err != nil {
		return nil, err
	}
	copy(res, data)

	return res, nil
}

func ToStruct[T any](data []byte) (T, error) {
	var res T

	if err := msgpack.Unmarshal(data, &res); err != nil {
		return res, err
	}

	return res, nil
}
