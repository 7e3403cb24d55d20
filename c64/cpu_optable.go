package c64

// buildInstLookup fills the 256-entry opcode table, the same
// {name, execute, addrMode, cycles}-struct-array idiom as the teacher's
// nes/cpu.go InstLookup, extended with the 6510's documented undocumented
// opcodes (§4.1). Cycle counts are the base NMOS 6502/6510 counts;
// page-cross and branch-taken penalties are added by the addressing-mode
// and branch helpers via the bitwise-AND-of-extra-cycles idiom the
// teacher uses (an instruction only gets the extra cycle when both it
// and its addressing mode report one).
func (cpu *Cpu6510) buildInstLookup() {
	i := func(name string, exec func() byte, mode func() byte, cycles byte) instruction {
		return instruction{name, exec, mode, cycles}
	}

	cpu.InstLookup = [256]instruction{
		// 0x00
		i("BRK", cpu.opBRK, cpu.amIMP, 7), i("ORA", cpu.opORA, cpu.amIZX, 6),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("ASO", cpu.opASO, cpu.amIZX, 8),
		i("NOP", cpu.opSKB, cpu.amZP0, 3), i("ORA", cpu.opORA, cpu.amZP0, 3),
		i("ASL", cpu.opASL, cpu.amZP0, 5), i("ASO", cpu.opASO, cpu.amZP0, 5),
		i("PHP", cpu.opPHP, cpu.amIMP, 3), i("ORA", cpu.opORA, cpu.amIMM, 2),
		i("ASL", cpu.opASL, cpu.amACC, 2), i("ANC", cpu.opANC, cpu.amIMM, 2),
		i("NOP", cpu.opSKW, cpu.amABS, 4), i("ORA", cpu.opORA, cpu.amABS, 4),
		i("ASL", cpu.opASL, cpu.amABS, 6), i("ASO", cpu.opASO, cpu.amABS, 6),
		// 0x10
		i("BPL", cpu.opBPL, cpu.amREL, 2), i("ORA", cpu.opORA, cpu.amIZY, 5),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("ASO", cpu.opASO, cpu.amIZY, 8),
		i("NOP", cpu.opSKB, cpu.amZPX, 4), i("ORA", cpu.opORA, cpu.amZPX, 4),
		i("ASL", cpu.opASL, cpu.amZPX, 6), i("ASO", cpu.opASO, cpu.amZPX, 6),
		i("CLC", cpu.opCLC, cpu.amIMP, 2), i("ORA", cpu.opORA, cpu.amABY, 4),
		i("NOP", cpu.opNOP, cpu.amIMP, 2), i("ASO", cpu.opASO, cpu.amABY, 7),
		i("NOP", cpu.opSKW, cpu.amABX, 4), i("ORA", cpu.opORA, cpu.amABX, 4),
		i("ASL", cpu.opASL, cpu.amABX, 7), i("ASO", cpu.opASO, cpu.amABX, 7),
		// 0x20
		i("JSR", cpu.opJSR, cpu.amABS, 6), i("AND", cpu.opAND, cpu.amIZX, 6),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("RLA", cpu.opRLA, cpu.amIZX, 8),
		i("BIT", cpu.opBIT, cpu.amZP0, 3), i("AND", cpu.opAND, cpu.amZP0, 3),
		i("ROL", cpu.opROL, cpu.amZP0, 5), i("RLA", cpu.opRLA, cpu.amZP0, 5),
		i("PLP", cpu.opPLP, cpu.amIMP, 4), i("AND", cpu.opAND, cpu.amIMM, 2),
		i("ROL", cpu.opROL, cpu.amACC, 2), i("ANC", cpu.opANC, cpu.amIMM, 2),
		i("BIT", cpu.opBIT, cpu.amABS, 4), i("AND", cpu.opAND, cpu.amABS, 4),
		i("ROL", cpu.opROL, cpu.amABS, 6), i("RLA", cpu.opRLA, cpu.amABS, 6),
		// 0x30
		i("BMI", cpu.opBMI, cpu.amREL, 2), i("AND", cpu.opAND, cpu.amIZY, 5),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("RLA", cpu.opRLA, cpu.amIZY, 8),
		i("NOP", cpu.opSKB, cpu.amZPX, 4), i("AND", cpu.opAND, cpu.amZPX, 4),
		i("ROL", cpu.opROL, cpu.amZPX, 6), i("RLA", cpu.opRLA, cpu.amZPX, 6),
		i("SEC", cpu.opSEC, cpu.amIMP, 2), i("AND", cpu.opAND, cpu.amABY, 4),
		i("NOP", cpu.opNOP, cpu.amIMP, 2), i("RLA", cpu.opRLA, cpu.amABY, 7),
		i("NOP", cpu.opSKW, cpu.amABX, 4), i("AND", cpu.opAND, cpu.amABX, 4),
		i("ROL", cpu.opROL, cpu.amABX, 7), i("RLA", cpu.opRLA, cpu.amABX, 7),
		// 0x40
		i("RTI", cpu.opRTI, cpu.amIMP, 6), i("EOR", cpu.opEOR, cpu.amIZX, 6),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("LSE", cpu.opLSE, cpu.amIZX, 8),
		i("NOP", cpu.opSKB, cpu.amZP0, 3), i("EOR", cpu.opEOR, cpu.amZP0, 3),
		i("LSR", cpu.opLSR, cpu.amZP0, 5), i("LSE", cpu.opLSE, cpu.amZP0, 5),
		i("PHA", cpu.opPHA, cpu.amIMP, 3), i("EOR", cpu.opEOR, cpu.amIMM, 2),
		i("LSR", cpu.opLSR, cpu.amACC, 2), i("ALR", cpu.opALR, cpu.amIMM, 2),
		i("JMP", cpu.opJMP, cpu.amABS, 3), i("EOR", cpu.opEOR, cpu.amABS, 4),
		i("LSR", cpu.opLSR, cpu.amABS, 6), i("LSE", cpu.opLSE, cpu.amABS, 6),
		// 0x50
		i("BVC", cpu.opBVC, cpu.amREL, 2), i("EOR", cpu.opEOR, cpu.amIZY, 5),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("LSE", cpu.opLSE, cpu.amIZY, 8),
		i("NOP", cpu.opSKB, cpu.amZPX, 4), i("EOR", cpu.opEOR, cpu.amZPX, 4),
		i("LSR", cpu.opLSR, cpu.amZPX, 6), i("LSE", cpu.opLSE, cpu.amZPX, 6),
		i("CLI", cpu.opCLI, cpu.amIMP, 2), i("EOR", cpu.opEOR, cpu.amABY, 4),
		i("NOP", cpu.opNOP, cpu.amIMP, 2), i("LSE", cpu.opLSE, cpu.amABY, 7),
		i("NOP", cpu.opSKW, cpu.amABX, 4), i("EOR", cpu.opEOR, cpu.amABX, 4),
		i("LSR", cpu.opLSR, cpu.amABX, 7), i("LSE", cpu.opLSE, cpu.amABX, 7),
		// 0x60
		i("RTS", cpu.opRTS, cpu.amIMP, 6), i("ADC", cpu.opADC, cpu.amIZX, 6),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("RRA", cpu.opRRA, cpu.amIZX, 8),
		i("NOP", cpu.opSKB, cpu.amZP0, 3), i("ADC", cpu.opADC, cpu.amZP0, 3),
		i("ROR", cpu.opROR, cpu.amZP0, 5), i("RRA", cpu.opRRA, cpu.amZP0, 5),
		i("PLA", cpu.opPLA, cpu.amIMP, 4), i("ADC", cpu.opADC, cpu.amIMM, 2),
		i("ROR", cpu.opROR, cpu.amACC, 2), i("ARR", cpu.opARR, cpu.amIMM, 2),
		i("JMP", cpu.opJMP, cpu.amIND, 5), i("ADC", cpu.opADC, cpu.amABS, 4),
		i("ROR", cpu.opROR, cpu.amABS, 6), i("RRA", cpu.opRRA, cpu.amABS, 6),
		// 0x70
		i("BVS", cpu.opBVS, cpu.amREL, 2), i("ADC", cpu.opADC, cpu.amIZY, 5),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("RRA", cpu.opRRA, cpu.amIZY, 8),
		i("NOP", cpu.opSKB, cpu.amZPX, 4), i("ADC", cpu.opADC, cpu.amZPX, 4),
		i("ROR", cpu.opROR, cpu.amZPX, 6), i("RRA", cpu.opRRA, cpu.amZPX, 6),
		i("SEI", cpu.opSEI, cpu.amIMP, 2), i("ADC", cpu.opADC, cpu.amABY, 4),
		i("NOP", cpu.opNOP, cpu.amIMP, 2), i("RRA", cpu.opRRA, cpu.amABY, 7),
		i("NOP", cpu.opSKW, cpu.amABX, 4), i("ADC", cpu.opADC, cpu.amABX, 4),
		i("ROR", cpu.opROR, cpu.amABX, 7), i("RRA", cpu.opRRA, cpu.amABX, 7),
		// 0x80
		i("NOP", cpu.opSKB, cpu.amIMM, 2), i("STA", cpu.opSTA, cpu.amIZX, 6),
		i("NOP", cpu.opSKB, cpu.amIMM, 2), i("SAX", cpu.opSAX, cpu.amIZX, 6),
		i("STY", cpu.opSTY, cpu.amZP0, 3), i("STA", cpu.opSTA, cpu.amZP0, 3),
		i("STX", cpu.opSTX, cpu.amZP0, 3), i("SAX", cpu.opSAX, cpu.amZP0, 3),
		i("DEY", cpu.opDEY, cpu.amIMP, 2), i("NOP", cpu.opSKB, cpu.amIMM, 2),
		i("TXA", cpu.opTXA, cpu.amIMP, 2), i("XAA", cpu.opXAA, cpu.amIMM, 2),
		i("STY", cpu.opSTY, cpu.amABS, 4), i("STA", cpu.opSTA, cpu.amABS, 4),
		i("STX", cpu.opSTX, cpu.amABS, 4), i("SAX", cpu.opSAX, cpu.amABS, 4),
		// 0x90
		i("BCC", cpu.opBCC, cpu.amREL, 2), i("STA", cpu.opSTA, cpu.amIZY, 6),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("AXA", cpu.opAXA, cpu.amIZY, 6),
		i("STY", cpu.opSTY, cpu.amZPX, 4), i("STA", cpu.opSTA, cpu.amZPX, 4),
		i("STX", cpu.opSTX, cpu.amZPY, 4), i("SAX", cpu.opSAX, cpu.amZPY, 4),
		i("TYA", cpu.opTYA, cpu.amIMP, 2), i("STA", cpu.opSTA, cpu.amABY, 5),
		i("TXS", cpu.opTXS, cpu.amIMP, 2), i("TAS", cpu.opTAS, cpu.amABY, 5),
		i("SAY", cpu.opSAY, cpu.amABX, 5), i("STA", cpu.opSTA, cpu.amABX, 5),
		i("XAS", cpu.opXAS, cpu.amABY, 5), i("AXA", cpu.opAXA, cpu.amABY, 5),
		// 0xA0
		i("LDY", cpu.opLDY, cpu.amIMM, 2), i("LDA", cpu.opLDA, cpu.amIZX, 6),
		i("LDX", cpu.opLDX, cpu.amIMM, 2), i("LAX", cpu.opLAX, cpu.amIZX, 6),
		i("LDY", cpu.opLDY, cpu.amZP0, 3), i("LDA", cpu.opLDA, cpu.amZP0, 3),
		i("LDX", cpu.opLDX, cpu.amZP0, 3), i("LAX", cpu.opLAX, cpu.amZP0, 3),
		i("TAY", cpu.opTAY, cpu.amIMP, 2), i("LDA", cpu.opLDA, cpu.amIMM, 2),
		i("TAX", cpu.opTAX, cpu.amIMP, 2), i("OAL", cpu.opOAL, cpu.amIMM, 2),
		i("LDY", cpu.opLDY, cpu.amABS, 4), i("LDA", cpu.opLDA, cpu.amABS, 4),
		i("LDX", cpu.opLDX, cpu.amABS, 4), i("LAX", cpu.opLAX, cpu.amABS, 4),
		// 0xB0
		i("BCS", cpu.opBCS, cpu.amREL, 2), i("LDA", cpu.opLDA, cpu.amIZY, 5),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("LAX", cpu.opLAX, cpu.amIZY, 5),
		i("LDY", cpu.opLDY, cpu.amZPX, 4), i("LDA", cpu.opLDA, cpu.amZPX, 4),
		i("LDX", cpu.opLDX, cpu.amZPY, 4), i("LAX", cpu.opLAX, cpu.amZPY, 4),
		i("CLV", cpu.opCLV, cpu.amIMP, 2), i("LDA", cpu.opLDA, cpu.amABY, 4),
		i("TSX", cpu.opTSX, cpu.amIMP, 2), i("LAS", cpu.opLAS, cpu.amABY, 4),
		i("LDY", cpu.opLDY, cpu.amABX, 4), i("LDA", cpu.opLDA, cpu.amABX, 4),
		i("LDX", cpu.opLDX, cpu.amABY, 4), i("LAX", cpu.opLAX, cpu.amABY, 4),
		// 0xC0
		i("CPY", cpu.opCPY, cpu.amIMM, 2), i("CMP", cpu.opCMP, cpu.amIZX, 6),
		i("NOP", cpu.opSKB, cpu.amIMM, 2), i("DCM", cpu.opDCM, cpu.amIZX, 8),
		i("CPY", cpu.opCPY, cpu.amZP0, 3), i("CMP", cpu.opCMP, cpu.amZP0, 3),
		i("DEC", cpu.opDEC, cpu.amZP0, 5), i("DCM", cpu.opDCM, cpu.amZP0, 5),
		i("INY", cpu.opINY, cpu.amIMP, 2), i("CMP", cpu.opCMP, cpu.amIMM, 2),
		i("DEX", cpu.opDEX, cpu.amIMP, 2), i("AXS", cpu.opAXS, cpu.amIMM, 2),
		i("CPY", cpu.opCPY, cpu.amABS, 4), i("CMP", cpu.opCMP, cpu.amABS, 4),
		i("DEC", cpu.opDEC, cpu.amABS, 6), i("DCM", cpu.opDCM, cpu.amABS, 6),
		// 0xD0
		i("BNE", cpu.opBNE, cpu.amREL, 2), i("CMP", cpu.opCMP, cpu.amIZY, 5),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("DCM", cpu.opDCM, cpu.amIZY, 8),
		i("NOP", cpu.opSKB, cpu.amZPX, 4), i("CMP", cpu.opCMP, cpu.amZPX, 4),
		i("DEC", cpu.opDEC, cpu.amZPX, 6), i("DCM", cpu.opDCM, cpu.amZPX, 6),
		i("CLD", cpu.opCLD, cpu.amIMP, 2), i("CMP", cpu.opCMP, cpu.amABY, 4),
		i("NOP", cpu.opNOP, cpu.amIMP, 2), i("DCM", cpu.opDCM, cpu.amABY, 7),
		i("NOP", cpu.opSKW, cpu.amABX, 4), i("CMP", cpu.opCMP, cpu.amABX, 4),
		i("DEC", cpu.opDEC, cpu.amABX, 7), i("DCM", cpu.opDCM, cpu.amABX, 7),
		// 0xE0
		i("CPX", cpu.opCPX, cpu.amIMM, 2), i("SBC", cpu.opSBC, cpu.amIZX, 6),
		i("NOP", cpu.opSKB, cpu.amIMM, 2), i("INS", cpu.opINS, cpu.amIZX, 8),
		i("CPX", cpu.opCPX, cpu.amZP0, 3), i("SBC", cpu.opSBC, cpu.amZP0, 3),
		i("INC", cpu.opINC, cpu.amZP0, 5), i("INS", cpu.opINS, cpu.amZP0, 5),
		i("INX", cpu.opINX, cpu.amIMP, 2), i("SBC", cpu.opSBC, cpu.amIMM, 2),
		i("NOP", cpu.opNOP, cpu.amIMP, 2), i("SBC", cpu.opSBC, cpu.amIMM, 2),
		i("CPX", cpu.opCPX, cpu.amABS, 4), i("SBC", cpu.opSBC, cpu.amABS, 4),
		i("INC", cpu.opINC, cpu.amABS, 6), i("INS", cpu.opINS, cpu.amABS, 6),
		// 0xF0
		i("BEQ", cpu.opBEQ, cpu.amREL, 2), i("SBC", cpu.opSBC, cpu.amIZY, 5),
		i("???", cpu.opXXX, cpu.amIMP, 2), i("INS", cpu.opINS, cpu.amIZY, 8),
		i("NOP", cpu.opSKB, cpu.amZPX, 4), i("SBC", cpu.opSBC, cpu.amZPX, 4),
		i("INC", cpu.opINC, cpu.amZPX, 6), i("INS", cpu.opINS, cpu.amZPX, 6),
		i("SED", cpu.opSED, cpu.amIMP, 2), i("SBC", cpu.opSBC, cpu.amABY, 4),
		i("NOP", cpu.opNOP, cpu.amIMP, 2), i("INS", cpu.opINS, cpu.amABY, 7),
		i("NOP", cpu.opSKW, cpu.amABX, 4), i("SBC", cpu.opSBC, cpu.amABX, 4),
		i("INC", cpu.opINC, cpu.amABX, 7), i("INS", cpu.opINS, cpu.amABX, 7),
	}
}
