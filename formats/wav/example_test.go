// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/intake/formats/wav"
	"github.com/ik5/intake/internal/audiotest"
)

func ExampleDecoder() {
	data := audiotest.SineWAV(44100, 2, 0.5, 440, 0.8)

	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	fmt.Printf("%d Hz, %d channels\n", src.SampleRate(), src.Channels())
	// Output:
	// 44100 Hz, 2 channels
}
