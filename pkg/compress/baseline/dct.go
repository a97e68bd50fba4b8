package baseline

// Fixed-point precision of the forward transform. Constants carry constBits
// fractional bits; values between the row and column passes carry pass1Bits
// extra bits.
const (
	constBits = 13
	pass1Bits = 2
	// scaleBits removes the factor of 8 left by the unnormalized 2-D transform.
	scaleBits = 3
)

// fix(c) for the LL&M rotation constants, scaled by 1<<constBits.
const (
	fix0_298631336 = 2446
	fix0_390180644 = 3196
	fix0_541196100 = 4433
	fix0_765366865 = 6270
	fix0_899976223 = 7373
	fix1_175875602 = 9633
	fix1_501321110 = 12299
	fix1_847759065 = 15137
	fix1_961570560 = 16069
	fix2_053119869 = 16819
	fix2_562915447 = 20995
	fix3_072711026 = 25172
)

// rightShift is an arithmetic shift: it rounds towards negative infinity for
// negative x.
func rightShift(x int32, n uint) int32 {
	if x < 0 {
		return ^((^x) >> n)
	}
	return x >> n
}

// descale divides x by 1<<n rounding to nearest, halves rounding up.
func descale(x int32, n uint) int32 {
	return rightShift(x+(1<<(n-1)), n)
}

// descaleOutput removes n fraction bits and the factor of 8 with a single
// rounding, so coefficients carry no downward bias.
func descaleOutput(x int32, n uint) int32 {
	return descale(x, n+scaleBits)
}

// FDCT performs the forward DCT in place on a block of level-shifted samples
// in row-major order. The output is the true 2-D DCT rounded to integers, DC
// first, using the LL&M 12 multiply / 32 add algorithm.
func FDCT(block *[blockSize]int32) {
	// Pass 1: rows. Results are scaled up by sqrt(8) and by 1<<pass1Bits.
	for row := 0; row < 8; row++ {
		d := block[row*8 : row*8+8 : row*8+8]
		tmp0 := d[0] + d[7]
		tmp7 := d[0] - d[7]
		tmp1 := d[1] + d[6]
		tmp6 := d[1] - d[6]
		tmp2 := d[2] + d[5]
		tmp5 := d[2] - d[5]
		tmp3 := d[3] + d[4]
		tmp4 := d[3] - d[4]

		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		d[0] = (tmp10 + tmp11) << pass1Bits
		d[4] = (tmp10 - tmp11) << pass1Bits

		z1 := (tmp12 + tmp13) * fix0_541196100
		d[2] = descale(z1+tmp13*fix0_765366865, constBits-pass1Bits)
		d[6] = descale(z1-tmp12*fix1_847759065, constBits-pass1Bits)

		z1, z2, z3, z4 := odd(&tmp4, &tmp5, &tmp6, &tmp7)
		d[7] = descale(tmp4+z1+z3, constBits-pass1Bits)
		d[5] = descale(tmp5+z2+z4, constBits-pass1Bits)
		d[3] = descale(tmp6+z2+z3, constBits-pass1Bits)
		d[1] = descale(tmp7+z1+z4, constBits-pass1Bits)
	}

	// Pass 2: columns. Removes pass1Bits and the overall factor of 8.
	for col := 0; col < 8; col++ {
		tmp0 := block[col] + block[col+56]
		tmp7 := block[col] - block[col+56]
		tmp1 := block[col+8] + block[col+48]
		tmp6 := block[col+8] - block[col+48]
		tmp2 := block[col+16] + block[col+40]
		tmp5 := block[col+16] - block[col+40]
		tmp3 := block[col+24] + block[col+32]
		tmp4 := block[col+24] - block[col+32]

		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		block[col] = descaleOutput(tmp10+tmp11, pass1Bits)
		block[col+32] = descaleOutput(tmp10-tmp11, pass1Bits)

		z1 := (tmp12 + tmp13) * fix0_541196100
		block[col+16] = descaleOutput(z1+tmp13*fix0_765366865, constBits+pass1Bits)
		block[col+48] = descaleOutput(z1-tmp12*fix1_847759065, constBits+pass1Bits)

		z1, z2, z3, z4 := odd(&tmp4, &tmp5, &tmp6, &tmp7)
		block[col+56] = descaleOutput(tmp4+z1+z3, constBits+pass1Bits)
		block[col+40] = descaleOutput(tmp5+z2+z4, constBits+pass1Bits)
		block[col+24] = descaleOutput(tmp6+z2+z3, constBits+pass1Bits)
		block[col+8] = descaleOutput(tmp7+z1+z4, constBits+pass1Bits)
	}
}

// odd computes the odd part of the LL&M butterfly (figure 8 of the paper,
// with the omitted sqrt(2) restored). tmp4..tmp7 are scaled in place; the
// returned z terms already include the shared z5 rotation.
func odd(tmp4, tmp5, tmp6, tmp7 *int32) (z1, z2, z3, z4 int32) {
	z1 = *tmp4 + *tmp7
	z2 = *tmp5 + *tmp6
	z3 = *tmp4 + *tmp6
	z4 = *tmp5 + *tmp7
	z5 := (z3 + z4) * fix1_175875602

	*tmp4 *= fix0_298631336
	*tmp5 *= fix2_053119869
	*tmp6 *= fix3_072711026
	*tmp7 *= fix1_501321110
	z1 *= -fix0_899976223
	z2 *= -fix2_562915447
	z3 *= -fix1_961570560
	z4 *= -fix0_390180644

	z3 += z5
	z4 += z5
	return z1, z2, z3, z4
}
