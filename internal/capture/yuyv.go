package capture

import (
	"fmt"
	"image"
)

// yuyvToImage unpacks a packed YUYV (YUY2) buffer into a planar
// image.YCbCr with 4:2:2 subsampling. stride is the source bytes per
// row and may exceed width*2 when the driver pads rows.
func yuyvToImage(data []byte, width, height, stride int) (*image.YCbCr, error) {
	if stride < width*2 {
		stride = width * 2
	}
	if len(data) < stride*height {
		return nil, fmt.Errorf("short YUYV buffer: got %d bytes, need %d", len(data), stride*height)
	}
	if width%2 != 0 {
		return nil, fmt.Errorf("YUYV width must be even, got %d", width)
	}

	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio422)

	for y := 0; y < height; y++ {
		src := data[y*stride:]
		yRow := img.Y[y*img.YStride:]
		cbRow := img.Cb[y*img.CStride:]
		crRow := img.Cr[y*img.CStride:]

		for x := 0; x < width/2; x++ {
			// Y0 Cb Y1 Cr per pixel pair
			yRow[x*2] = src[x*4]
			cbRow[x] = src[x*4+1]
			yRow[x*2+1] = src[x*4+2]
			crRow[x] = src[x*4+3]
		}
	}

	return img, nil
}
