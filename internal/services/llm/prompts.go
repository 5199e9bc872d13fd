package llm

// CodeExtractionPrompt instructs the model to read waybill text and answer
// with a strict JSON object. The confidence the model reports is advisory;
// the caller caps it and verifies the code occurs in the text.
const CodeExtractionPrompt = `You extract shipping-container codes from rail waybill text.
A container code is exactly 4 uppercase Latin letters followed by 7 digits, for example MSKU1234567.
The text may be Russian, English, or both, and may contain OCR noise.
Ignore registry identifiers such as OKPO, OGRN, or INN numbers.
Respond with JSON only, in the form:
{"code": "ABCD1234567", "confidence": 0.0, "reason": "short explanation"}
If no container code is present, respond with {"code": "", "confidence": 0.0, "reason": "not found"}.
Never invent a code that is not present in the text.`
