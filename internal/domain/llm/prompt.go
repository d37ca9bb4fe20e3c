package llm

import "fmt"

// extractionPrompt demands a bare JSON array with fixed keys. The formatting
// rules exist because small local models drift into markdown, prose and
// locale-formatted numbers without them.
func extractionPrompt(bankName, text string) string {
	return fmt.Sprintf(`You are a bank statement parser. Extract every transaction from the %s bank statement text below.

Respond with ONLY a JSON array. No markdown, no explanation, no code fences.

Each element must have exactly these keys:
- "date": transaction date in YYYY-MM-DD format
- "description": the narration text as printed
- "amount": the transaction amount as a plain number, no currency symbols, no commas, no minus signs
- "type": exactly "credit" if money entered the account, exactly "debit" if money left it

Rules:
- Skip opening balance, closing balance, totals and summary lines.
- Do not invent transactions that are not in the text.
- If no transactions are present, respond with [].

Statement text:
%s`, bankName, text)
}

// categorizePrompt asks for a single category word for one transaction.
func categorizePrompt(description string, amount float64) string {
	return fmt.Sprintf(`Classify this bank transaction into exactly one category.

Transaction: %q
Amount: %.2f

Choose one of: Income, Food, Groceries, Transport, Shopping, Bills, Entertainment, Health, Travel, Education, Transfers, Other.

Respond with only the category word, nothing else.`, description, amount)
}
